package llm

import "strings"

// EndpointFamily selects the wire shape of the request body.
type EndpointFamily int

const (
	EndpointChatCompletions EndpointFamily = iota
	EndpointResponses
)

// ModelFamily selects parameter naming and temperature policy.
type ModelFamily int

const (
	// ModelLegacy takes max_tokens and a free temperature.
	ModelLegacy ModelFamily = iota
	// ModelMaxCompletionTokens covers the newer chat models that renamed the
	// token-limit field but still accept temperature.
	ModelMaxCompletionTokens
	// ModelReasoning covers the o-series models: max_completion_tokens,
	// temperature locked to its default of 1.
	ModelReasoning
)

// RequestShape is the classification consumed by the adapter. It is computed
// once per request instead of re-matching URL and model strings at every
// decision point.
type RequestShape struct {
	Endpoint EndpointFamily
	Model    ModelFamily
}

var reasoningPrefixes = []string{"o1", "o3", "o4"}

var maxCompletionPrefixes = []string{
	"gpt-4o",
	"gpt-4-turbo",
	"gpt-4.1",
	"chatgpt-4o",
}

// Classify determines the request shape from the endpoint URL and the model
// identifier. An URL containing a /responses segment selects the responses
// wire shape; everything else is treated as chat-completions.
func Classify(endpointURL, model string) RequestShape {
	shape := RequestShape{Endpoint: EndpointChatCompletions, Model: ModelLegacy}

	if strings.Contains(endpointURL, "/responses") {
		shape.Endpoint = EndpointResponses
	}

	switch {
	case isReasoningModel(model):
		shape.Model = ModelReasoning
	case hasAnyPrefix(model, maxCompletionPrefixes):
		shape.Model = ModelMaxCompletionTokens
	}

	return shape
}

// isReasoningModel matches the o-series families. The prefix must be the
// whole identifier or be followed by a dash, so "o1-mini" matches but an
// unrelated name starting with the same letters does not.
func isReasoningModel(model string) bool {
	for _, p := range reasoningPrefixes {
		if model == p || strings.HasPrefix(model, p+"-") {
			return true
		}
	}
	return false
}

func hasAnyPrefix(model string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
