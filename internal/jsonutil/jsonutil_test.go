package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestUnmarshalModelOutputDirect(t *testing.T) {
	var p payload
	require.NoError(t, UnmarshalModelOutput(`{"name": "a", "score": 3}`, &p))
	assert.Equal(t, payload{Name: "a", Score: 3}, p)
}

func TestUnmarshalModelOutputFenced(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"name\": \"b\", \"score\": 7}\n```\nLet me know if you need more."
	var p payload
	require.NoError(t, UnmarshalModelOutput(text, &p))
	assert.Equal(t, payload{Name: "b", Score: 7}, p)
}

func TestUnmarshalModelOutputEmbeddedInProse(t *testing.T) {
	text := `The result is {"name": "c", "score": 1} as requested.`
	var p payload
	require.NoError(t, UnmarshalModelOutput(text, &p))
	assert.Equal(t, "c", p.Name)
}

func TestUnmarshalModelOutputNoJSON(t *testing.T) {
	var p payload
	assert.ErrorIs(t, UnmarshalModelOutput("sorry, I could not produce that", &p), ErrNoJSON)
	assert.ErrorIs(t, UnmarshalModelOutput("", &p), ErrNoJSON)
	assert.ErrorIs(t, UnmarshalModelOutput("   \n\t", &p), ErrNoJSON)
}

func TestExtractDocumentBalancesNesting(t *testing.T) {
	doc, err := ExtractDocument(`prefix {"a": {"b": [1, 2]}, "c": "x"} suffix {"d": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": [1, 2]}, "c": "x"}`, doc)
}

func TestExtractDocumentArray(t *testing.T) {
	doc, err := ExtractDocument(`items: [1, {"k": "v"}, 3]`)
	require.NoError(t, err)
	assert.Equal(t, `[1, {"k": "v"}, 3]`, doc)
}

func TestExtractDocumentIgnoresBracesInStrings(t *testing.T) {
	doc, err := ExtractDocument(`{"msg": "unexpected } in input", "ok": true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"msg": "unexpected } in input", "ok": true}`, doc)
}

func TestExtractDocumentUnbalanced(t *testing.T) {
	_, err := ExtractDocument(`{"truncated": "output`)
	assert.ErrorIs(t, err, ErrNoJSON)
}
