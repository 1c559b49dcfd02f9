// Package knowledge queries the bug knowledge base for previously seen
// similar defects.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/config"
)

const maxQueryCode = 500

// Client talks to the knowledge-base query endpoint. Lookup failures are
// advisory: the pipeline works without similar bugs, so every failure
// degrades to an empty result instead of an error.
type Client struct {
	httpClient *http.Client
	cfg        *config.KnowledgeBaseConfig
}

func NewClient(cfg *config.KnowledgeBaseConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type queryRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}

type queryResponse struct {
	Results []apimodels.SimilarBug `json:"results"`
}

// QuerySimilarBugs looks up bugs similar to the submitted inputs.
func (c *Client) QuerySimilarBugs(ctx context.Context, in apimodels.AnalysisInputs) []apimodels.SimilarBug {
	payload, err := json.Marshal(queryRequest{
		Query:     buildQuery(in),
		TopK:      c.cfg.TopK,
		Threshold: c.cfg.SimilarityThreshold,
	})
	if err != nil {
		slog.Warn("knowledge base query encoding failed", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		slog.Warn("knowledge base request build failed", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("knowledge base query failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("knowledge base response read failed", "error", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("knowledge base query rejected",
			"status", resp.StatusCode, "body", string(body))
		return nil
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		slog.Warn("knowledge base response decoding failed", "error", err)
		return nil
	}
	return decoded.Results
}

// buildQuery assembles the lookup text from the error, the description
// and a bounded slice of the code.
func buildQuery(in apimodels.AnalysisInputs) string {
	var parts []string
	if in.ErrorMessage != nil {
		parts = append(parts, in.ErrorMessage.RawContent)
	}
	if in.ProblemDescription != nil {
		parts = append(parts, in.ProblemDescription.RawContent)
	}
	if in.CodeSnippet != nil {
		code := in.CodeSnippet.RawContent
		if len(code) > maxQueryCode {
			code = code[:maxQueryCode]
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, " ")
}

// Endpoint reports the configured query URL, for startup logging.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}
