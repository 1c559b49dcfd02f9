package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/analyzer"
	"github.com/fixwise/fixwise/internal/config"
	"github.com/fixwise/fixwise/internal/knowledge"
	"github.com/fixwise/fixwise/internal/llm"
	"github.com/fixwise/fixwise/internal/render"
)

var (
	errorMessage string
	codeSnippet  string
	codeFile     string
	description  string
	logFile      string
	outputFormat string
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a defect from its error, code, description and logs",
		Long: `Run the full diagnosis pipeline over the provided inputs.

Examples:
  # Analyze an error message
  fixwise analyze --error "ZeroDivisionError: division by zero"

  # Analyze an error together with the code that raised it
  fixwise analyze --error "TypeError: ..." --code-file handler.py

  # Describe a problem and attach logs, render as markdown
  fixwise analyze --description "checkout fails for some users" --log-file app.log -o markdown`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&errorMessage, "error", "", "Error message or stack trace")
	cmd.Flags().StringVar(&codeSnippet, "code", "", "Code snippet to analyze")
	cmd.Flags().StringVar(&codeFile, "code-file", "", "File containing the code to analyze")
	cmd.Flags().StringVar(&description, "description", "", "Problem description")
	cmd.Flags().StringVar(&logFile, "log-file", "", "File containing relevant logs")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", render.FormatHuman, "Output format (human, json, markdown)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := buildRequest()
	if err != nil {
		return err
	}
	if req.Empty() {
		return fmt.Errorf("provide at least one of --error, --code, --code-file, --description or --log-file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create model provider: %w", err)
	}
	client := llm.NewClient(provider, cfg.LLM.MaxRetries)
	engine := analyzer.NewEngine(client, knowledge.NewClient(&cfg.KB))

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Analyzing..."
	s.Start()

	result := engine.Analyze(cmd.Context(), req)

	s.Stop()
	printSuccess("Analysis complete")

	return render.Result(os.Stdout, result, outputFormat)
}

func buildRequest() (apimodels.AnalysisRequest, error) {
	req := apimodels.AnalysisRequest{
		ErrorMessage:       errorMessage,
		CodeSnippet:        codeSnippet,
		ProblemDescription: description,
	}

	if codeFile != "" {
		code, err := os.ReadFile(codeFile)
		if err != nil {
			return req, fmt.Errorf("failed to read code file: %w", err)
		}
		req.CodeSnippet = string(code)
		req.Filename = codeFile
	}

	if logFile != "" {
		logs, err := os.ReadFile(logFile)
		if err != nil {
			return req, fmt.Errorf("failed to read log file: %w", err)
		}
		req.LogInfo = string(logs)
	}
	return req, nil
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}
