package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-insights/internal/domain"
)

// Categorizer labels a cleaned parse's transactions with spending
// categories. Implementations must leave every other field untouched.
type Categorizer interface {
	Categorize(ctx context.Context, result *domain.ParseResult) error
}

// GeminiCategorizer is the Gemini-backed Categorizer.
type GeminiCategorizer struct {
	client *genai.Client
	model  string
}

// NewGeminiCategorizer creates a Gemini client for categorization. An empty
// model falls back to DefaultModelName.
func NewGeminiCategorizer(ctx context.Context, model string) (*GeminiCategorizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("extract: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiCategorizer{client: client, model: model}, nil
}

// Categorize asks the model for one category per transaction and applies
// them in place. Transactions already labeled are left alone, and a failed
// round trip leaves the result exactly as it was.
func (c *GeminiCategorizer) Categorize(ctx context.Context, result *domain.ParseResult) error {
	if result == nil || allCategorized(result) {
		return nil
	}

	payload, err := json.Marshal(result.TransactionsByCardholder)
	if err != nil {
		return fmt.Errorf("extract: marshal transactions: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: categorizerPrompt()},
				{Text: "Transactions:\n\n" + string(payload)},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return fmt.Errorf("extract: generate content: %w", err)
	}

	labeled, err := decodeCategorized(resp.Text())
	if err != nil {
		return err
	}
	applyCategories(result, labeled)
	return nil
}

func decodeCategorized(raw string) (map[string][]domain.Transaction, error) {
	if raw == "" {
		return nil, fmt.Errorf("extract: empty response from model")
	}

	clean := cleanModelJSON(raw)
	if obj := extractJSONObject(clean); obj != "" {
		clean = obj
	}

	var labeled map[string][]domain.Transaction
	if err := json.Unmarshal([]byte(clean), &labeled); err != nil {
		return nil, fmt.Errorf("extract: unmarshal categorized JSON: %w", err)
	}
	return labeled, nil
}

// applyCategories copies categories from the model's response onto matching
// positions. A holder or index the model dropped keeps its original value;
// labels outside the taxonomy are ignored.
func applyCategories(result *domain.ParseResult, labeled map[string][]domain.Transaction) {
	valid := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		valid[c] = struct{}{}
	}

	for holder, txs := range result.TransactionsByCardholder {
		labeledTxs, ok := labeled[holder]
		if !ok {
			continue
		}
		for i := range txs {
			if i >= len(labeledTxs) {
				break
			}
			if _, ok := valid[labeledTxs[i].Category]; ok {
				txs[i].Category = labeledTxs[i].Category
			}
		}
	}
}

func allCategorized(result *domain.ParseResult) bool {
	for _, txs := range result.TransactionsByCardholder {
		for _, tx := range txs {
			if tx.Category == "" {
				return false
			}
		}
	}
	return true
}
