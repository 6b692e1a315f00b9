package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenContent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"plain string", "hello", "hello"},
		{"typed part", map[string]any{"type": "text", "text": "hello"}, "hello"},
		{
			"part list",
			[]any{
				map[string]any{"type": "text", "text": "first"},
				map[string]any{"type": "text", "text": "second"},
			},
			"first\nsecond",
		},
		{
			"nested content",
			map[string]any{"content": []any{map[string]any{"text": "inner"}}},
			"inner",
		},
		{"nil", nil, ""},
		{"number", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenContent(tt.value))
		})
	}
}
