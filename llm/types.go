package llm

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Role names reuse the canonical OpenAI protocol identifiers.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Defaults applied when the caller's configuration leaves a field empty.
const (
	DefaultModel       = openai.GPT4oMini
	DefaultEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "user" or "assistant" or "system"
	Content string `json:"content"`
}

// RequestOptions carries the per-call parameters folded into an outgoing
// request. It is never persisted; Temperature is a pointer so "not set" is
// distinguishable from an explicit zero.
type RequestOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   int
	EndpointURL string
	APIKey      string
	ExtraParams map[string]any
}

// FlattenContent resolves a message content value of unknown shape to a flat
// string. Providers (and stored history) sometimes carry content as a list of
// typed parts; every part's text is collected and joined with newlines.
func FlattenContent(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, item := range c {
			if s := FlattenContent(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		if s, ok := c["text"].(string); ok {
			return s
		}
		if inner, ok := c["content"]; ok {
			return FlattenContent(inner)
		}
		return ""
	default:
		return ""
	}
}
