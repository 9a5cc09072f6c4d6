package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Client implements Classifier and ResponseGenerator on top of the OpenAI
// chat completion API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates an AI client for intent work
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// Classify calls the model in JSON mode and parses the intent result.
func (c *Client) Classify(ctx context.Context, text string) (*IntentResult, error) {
	systemPrompt, userPrompt := buildClassifyPrompt(text)

	log.Printf("[Intent] Classifying input (length: %d)", len(text))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.0, // Deterministic classification
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("[Intent] OpenAI API error: %v", err)
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("intent classification returned no choices")
	}

	content := resp.Choices[0].Message.Content
	log.Printf("[Intent] Raw response: %s", truncateString(content, 300))

	var result IntentResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Some models wrap JSON in markdown fences despite JSON mode
		extracted := extractJSONFromMarkdown(content)
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			log.Printf("[Intent] Failed to parse response: %v. Content: %s", err, content)
			return nil, fmt.Errorf("failed to parse intent classification response: %w", err)
		}
	}

	result.Entity = strings.TrimSpace(result.Entity)
	log.Printf("[Intent] Classified: capital_query=%t, type=%s, entity=%q",
		result.IsCapitalQuery, result.QueryType, result.Entity)

	return &result, nil
}

// Generate produces a one-sentence spoken answer for a resolved capital query.
func (c *Client) Generate(ctx context.Context, queryType, entity, capital string) (string, error) {
	systemPrompt, userPrompt := buildGeneratePrompt(queryType, entity, capital)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   80,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("[Intent] Response generation error: %v", err)
		return "", fmt.Errorf("response generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response generation returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("response generation returned empty text")
	}

	log.Printf("[Intent] Generated response (length: %d)", len(answer))
	return answer, nil
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}

// truncateString truncates string to max length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
