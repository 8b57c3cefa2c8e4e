// Package extract talks to Gemini: it turns raw statement text into a
// candidate parse and labels cleaned transactions with spending categories.
// Responses are decoded generically; deciding whether a candidate is
// trustworthy is the gate's job, not this package's.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-insights/internal/gate"
)

// DefaultModelName is the default Gemini model used for parsing and
// categorization.
const DefaultModelName = "gemini-2.5-flash"

// CandidateParser produces a candidate statement parse from raw text. The
// strictness level feeds the prompt so retries genuinely differ from the
// attempt they follow.
type CandidateParser interface {
	ParseStatement(ctx context.Context, rawText string, level gate.Level) (any, error)
}

// GeminiParser is the Gemini-backed CandidateParser.
type GeminiParser struct {
	client *genai.Client
	model  string
}

// NewGeminiParser creates a Gemini client using ambient credentials
// (GEMINI_API_KEY or application default credentials). An empty model falls
// back to DefaultModelName.
func NewGeminiParser(ctx context.Context, model string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("extract: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiParser{client: client, model: model}, nil
}

// ParseStatement sends the raw statement text to the model and returns the
// decoded candidate. The result is untyped; shape and content checks happen
// downstream.
func (p *GeminiParser) ParseStatement(ctx context.Context, rawText string, level gate.Level) (any, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: statementPrompt(level)},
				{Text: "Statement text:\n\n" + rawText},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("extract: generate content: %w", err)
	}

	return decodeObjectResponse(resp.Text())
}

// decodeObjectResponse unwraps a model response into a generic JSON value.
func decodeObjectResponse(raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("extract: empty response from model")
	}

	clean := cleanModelJSON(raw)
	if obj := extractJSONObject(clean); obj != "" {
		clean = obj
	}

	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("extract: unmarshal model JSON: %w", err)
	}
	return parsed, nil
}
