package llm

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// maxExtractDepth bounds the response walk; provider payloads nest content a
// handful of levels deep at most.
const maxExtractDepth = 10

// Known text-bearing fields, collected ahead of everything else and in this
// order.
var priorityKeys = []string{"text", "output_text", "generated_text"}

// Container fields recursed into after the priority keys.
var containerKeys = []string{"content", "message", "delta", "output"}

// Metadata fields that are known not to carry reply text. Skipping them
// avoids leaking roles, finish reasons and safety verdicts into the reply.
var metadataKeys = map[string]bool{
	"role":           true,
	"finish_reason":  true,
	"finishReason":   true,
	"index":          true,
	"refusal":        true,
	"safety_ratings": true,
	"safetyRatings":  true,
	"logprobs":       true,
	"usage":          true,
	"id":             true,
	"object":         true,
	"model":          true,
	"created":        true,
	"status":         true,
	"type":           true,
}

// ExtractText recovers the assistant's reply from a 200 response body of
// unknown shape. It tries choices[0] (chat-completions), then the top-level
// output field (responses), then the whole document for flat shapes. No
// extractable text anywhere is an UnexpectedResponseFormat error.
func ExtractText(body []byte) (string, error) {
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		return "", &Error{Kind: KindJSONParseFailure, Detail: "malformed response body", Err: err}
	}

	if obj, ok := root.(map[string]any); ok {
		if choices, ok := obj["choices"].([]any); ok && len(choices) > 0 {
			if text := collectText(choices[0]); text != "" {
				return text, nil
			}
		}
		if output, ok := obj["output"]; ok {
			if text := collectText(output); text != "" {
				return text, nil
			}
		}
	}

	if text := collectText(root); text != "" {
		return text, nil
	}

	return "", &Error{Kind: KindUnexpectedResponse, Detail: "no text found in response"}
}

// collectText walks a decoded JSON value and joins every collected fragment
// with a blank line, in traversal order.
func collectText(node any) string {
	w := &textWalker{visited: make(map[uintptr]bool)}
	w.walk(node, 0)
	return strings.Join(w.fragments, "\n\n")
}

type textWalker struct {
	visited   map[uintptr]bool
	fragments []string
}

func (w *textWalker) walk(node any, depth int) {
	if depth > maxExtractDepth {
		return
	}

	switch v := node.(type) {
	case string:
		if v != "" {
			w.fragments = append(w.fragments, v)
		}

	case []any:
		if w.seen(v) {
			return
		}
		for _, item := range v {
			w.walk(item, depth+1)
		}

	case map[string]any:
		if w.seen(v) {
			return
		}
		w.walkObject(v, depth)
	}
}

func (w *textWalker) walkObject(obj map[string]any, depth int) {
	handled := make(map[string]bool, len(obj))

	for _, key := range priorityKeys {
		if val, ok := obj[key]; ok {
			handled[key] = true
			w.walk(val, depth+1)
		}
	}
	for _, key := range containerKeys {
		if val, ok := obj[key]; ok {
			handled[key] = true
			w.walk(val, depth+1)
		}
	}

	// Remaining fields in sorted order so output is deterministic across
	// runs; annotations always come last.
	rest := make([]string, 0, len(obj))
	for key := range obj {
		if handled[key] || metadataKeys[key] || key == "annotations" {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		w.walk(obj[key], depth+1)
	}

	if val, ok := obj["annotations"]; ok {
		w.walk(val, depth+1)
	}
}

// seen tracks container identity so a cyclic object graph terminates instead
// of looping. Decoded JSON is acyclic, but callers may hand in trees built
// by hand.
func (w *textWalker) seen(container any) bool {
	ptr := reflect.ValueOf(container).Pointer()
	if w.visited[ptr] {
		return true
	}
	w.visited[ptr] = true
	return false
}
