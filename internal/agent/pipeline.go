package agent

import (
	"context"
	"fmt"
	"log"

	"voiceagent/internal/ai"
	"voiceagent/internal/metrics"
)

// Canonical response texts. Every pipeline exit goes through one of these or
// through generated text; the response is never empty and never a raw error.
const (
	responseTroubleProcessing = "I'm sorry, I'm having trouble processing your request right now."
	responseInternalError     = "I'm sorry, I encountered an error processing your request."
	responseUnsupportedQuery  = "I can only help with questions about country and state capitals. Please ask me about a capital city."
	responseUnknownEntity     = "I'm sorry, I couldn't understand which country or state you're asking about."
)

// CapitalLookup resolves an entity name to its capital.
type CapitalLookup interface {
	FindCapital(entity string) (string, bool)
}

// Pipeline resolves free text into a structured query result: classify
// intent, look up the capital, generate the spoken answer.
type Pipeline struct {
	classifier ai.Classifier
	generator  ai.ResponseGenerator
	capitals   CapitalLookup
	metrics    *metrics.Metrics
}

// NewPipeline creates an intent resolution pipeline
func NewPipeline(classifier ai.Classifier, generator ai.ResponseGenerator, capitals CapitalLookup, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		generator:  generator,
		capitals:   capitals,
		metrics:    m,
	}
}

// Resolve runs the decision tree over text. The first matching branch wins
// and every branch yields a well-formed result; no error leaves this method.
func (p *Pipeline) Resolve(ctx context.Context, text string) QueryResult {
	res := p.resolve(ctx, text)
	p.observe(res)
	return res
}

func (p *Pipeline) resolve(ctx context.Context, text string) QueryResult {
	intent, err := p.classifier.Classify(ctx, text)
	if err != nil {
		log.Printf("[Pipeline] Classification error: %v", err)
		return QueryResult{
			ResponseText: responseTroubleProcessing,
			Success:      false,
			Error:        err.Error(),
		}
	}

	if !intent.IsCapitalQuery {
		return QueryResult{
			ResponseText: responseUnsupportedQuery,
			Success:      true,
			QueryType:    "other",
		}
	}

	if intent.Entity == "" {
		return QueryResult{
			ResponseText: responseUnknownEntity,
			Success:      true,
			QueryType:    "unknown",
		}
	}

	capital, found := p.capitals.FindCapital(intent.Entity)
	if !found {
		// The pipeline executed correctly even though the answer is
		// unavailable; a data miss is not a failure.
		log.Printf("[Pipeline] No capital found for entity %q", intent.Entity)
		return QueryResult{
			ResponseText: fmt.Sprintf("I'm sorry, I don't have information about the capital of %s.", intent.Entity),
			Success:      true,
			QueryType:    intent.QueryType,
			Entity:       intent.Entity,
		}
	}

	response, err := p.generator.Generate(ctx, intent.QueryType, intent.Entity, capital)
	if err != nil {
		log.Printf("[Pipeline] Response generation error: %v", err)
		return QueryResult{
			ResponseText: responseInternalError,
			Success:      false,
			Error:        err.Error(),
		}
	}

	return QueryResult{
		ResponseText: response,
		Success:      true,
		QueryType:    intent.QueryType,
		Entity:       intent.Entity,
		Capital:      capital,
	}
}

func (p *Pipeline) observe(res QueryResult) {
	if p.metrics == nil {
		return
	}
	if !res.Success {
		p.metrics.QueryFailures.Inc()
		return
	}
	queryType := res.QueryType
	if queryType == "" {
		queryType = "unknown"
	}
	p.metrics.QueriesTotal.WithLabelValues(queryType).Inc()
}
