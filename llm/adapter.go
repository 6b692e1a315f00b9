package llm

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal adaptation event: the request still goes out, but
// the caller asked for something the target model family does not honor.
type Warning struct {
	Param  string
	Detail string
}

// AdaptedRequest is the single wire-format request produced for one call.
type AdaptedRequest struct {
	URL      string
	Body     map[string]any
	Warnings []Warning
}

// BuildRequest transforms a conversation plus options into the body expected
// by the target endpoint. The conversation must already be pruned; this
// function never mutates it.
func BuildRequest(conv []Message, opts RequestOptions) (*AdaptedRequest, error) {
	if len(conv) == 0 {
		return nil, &Error{Kind: KindInvalidInput, Detail: "empty conversation"}
	}
	if opts.APIKey == "" {
		return nil, &Error{Kind: KindMissingCredential, Detail: "no API key configured"}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	endpoint := opts.EndpointURL
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	shape := Classify(endpoint, model)
	req := &AdaptedRequest{
		URL:  endpoint,
		Body: map[string]any{"model": model},
	}

	if shape.Endpoint == EndpointResponses {
		instructions, input := foldForResponses(conv)
		if instructions != "" {
			req.Body["instructions"] = instructions
		}
		req.Body["input"] = input
	} else {
		req.Body["messages"] = conv
	}

	applyTemperature(req, shape, opts)
	applyTokenLimit(req, shape, opts)

	// The reasoning models answer ambiguously multi-modal unless the text
	// format and modality are pinned down.
	if shape.Model == ModelReasoning && shape.Endpoint == EndpointChatCompletions {
		req.Body["response_format"] = map[string]any{"type": "text"}
		req.Body["modalities"] = []string{"text"}
	}

	// Caller-supplied extras win over everything set above.
	for k, v := range opts.ExtraParams {
		req.Body[k] = v
	}

	return req, nil
}

// foldForResponses converts a conversation into the responses wire shape:
// all system content concatenated into one instructions string, remaining
// messages as role-tagged content blocks. Roles other than user/assistant
// are coerced to user.
func foldForResponses(conv []Message) (string, []map[string]any) {
	var systemParts []string
	input := make([]map[string]any, 0, len(conv))

	for _, msg := range conv {
		if msg.Role == RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}

		role := msg.Role
		partType := "input_text"
		if role == RoleAssistant {
			partType = "output_text"
		} else if role != RoleUser {
			role = RoleUser
		}

		input = append(input, map[string]any{
			"role": role,
			"content": []map[string]any{
				{"type": partType, "text": msg.Content},
			},
		})
	}

	return strings.Join(systemParts, "\n\n"), input
}

func applyTemperature(req *AdaptedRequest, shape RequestShape, opts RequestOptions) {
	if shape.Model == ModelReasoning {
		// These models only accept their default temperature of 1; the field
		// is omitted entirely and a non-default request becomes a warning.
		if opts.Temperature != nil && *opts.Temperature != 1 {
			req.Warnings = append(req.Warnings, Warning{
				Param:  "temperature",
				Detail: fmt.Sprintf("temperature %g not supported by model %q, using default", *opts.Temperature, opts.Model),
			})
		}
		return
	}

	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	req.Body["temperature"] = temperature
}

// applyTokenLimit sets exactly one of the three token-limit field spellings.
func applyTokenLimit(req *AdaptedRequest, shape RequestShape, opts RequestOptions) {
	limit := opts.MaxTokens
	if limit <= 0 {
		limit = DefaultMaxTokens
	}

	switch {
	case shape.Endpoint == EndpointResponses:
		req.Body["max_output_tokens"] = limit
	case shape.Model == ModelReasoning || shape.Model == ModelMaxCompletionTokens:
		req.Body["max_completion_tokens"] = limit
	default:
		req.Body["max_tokens"] = limit
	}
}
