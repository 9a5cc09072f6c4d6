package ai

import "fmt"

// buildClassifyPrompt builds the system and user prompts for intent
// classification. The model must return JSON only.
func buildClassifyPrompt(text string) (string, string) {
	systemPrompt := `You are an intent classifier for a voice agent that answers questions about country and state capitals.
You must be precise and literal.
Return valid JSON only, with all fields present.

Rules:
- is_capital_query: true only if the user is asking for the capital city of a country or a US state.
- query_type: "country" or "state" when is_capital_query is true, otherwise "other".
- entity: the country or state name exactly as mentioned by the user, or "" if none was mentioned.
- Do not guess an entity that is not present in the text.`

	userPrompt := fmt.Sprintf(`Classify this user input:
"""
%s
"""

Return JSON in exactly this format:

{
  "is_capital_query": true,
  "query_type": "country",
  "entity": "France"
}`, text)

	return systemPrompt, userPrompt
}

// buildGeneratePrompt builds the prompts for natural-language answer
// generation once the capital has been resolved.
func buildGeneratePrompt(queryType, entity, capital string) (string, string) {
	systemPrompt := `You are a friendly voice assistant. Answer in one short spoken sentence.
State the fact you are given. Do not add extra facts, disclaimers, or questions.`

	userPrompt := fmt.Sprintf(`The user asked for the capital of the %s %q. The capital is %q.
Reply with one natural sentence containing the answer.`, queryType, entity, capital)

	return systemPrompt, userPrompt
}
