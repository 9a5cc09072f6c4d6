package ai

import "context"

// IntentResult is the structured output of intent classification.
type IntentResult struct {
	IsCapitalQuery bool   `json:"is_capital_query"`
	QueryType      string `json:"query_type"`
	Entity         string `json:"entity"`
}

// Classifier decides whether free text asks for a capital and extracts the
// country or state name.
type Classifier interface {
	Classify(ctx context.Context, text string) (*IntentResult, error)
}

// ResponseGenerator produces a natural-language answer from a resolved query.
type ResponseGenerator interface {
	Generate(ctx context.Context, queryType, entity, capital string) (string, error)
}
