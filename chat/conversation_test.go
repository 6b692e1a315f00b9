package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-companion/llm"
)

func conversationOfLength(n int, withSystem bool) []llm.Message {
	var conv []llm.Message
	if withSystem {
		conv = append(conv, llm.Message{Role: llm.RoleSystem, Content: "system prompt"})
	}
	for i := len(conv); i < n; i++ {
		role := llm.RoleUser
		if i%2 == 0 {
			role = llm.RoleAssistant
		}
		conv = append(conv, llm.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return conv
}

func TestAppendRoles(t *testing.T) {
	conv := AppendUser(nil, "a question")
	conv = AppendAssistant(conv, "an answer")

	require.Len(t, conv, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "a question"}, conv[0])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "an answer"}, conv[1])
}

func TestResetForPrompt(t *testing.T) {
	conv := ResetForPrompt("be terse", "the passage")

	require.Len(t, conv, 2)
	assert.Equal(t, llm.RoleSystem, conv[0].Role)
	assert.Equal(t, "be terse", conv[0].Content)
	assert.Equal(t, llm.RoleUser, conv[1].Role)
	assert.Equal(t, "the passage", conv[1].Content)
}

func TestPruneWithinBoundUnchanged(t *testing.T) {
	conv := conversationOfLength(5, true)
	assert.Equal(t, conv, Prune(conv, 10))
	assert.Equal(t, conv, Prune(conv, 5))
}

func TestPrunePreservesSystemMessage(t *testing.T) {
	for length := 6; length <= 40; length++ {
		conv := conversationOfLength(length, true)
		pruned := Prune(conv, 5)

		require.Len(t, pruned, 5, "length %d", length)
		assert.Equal(t, conv[0], pruned[0], "length %d", length)
		// the rest are the most recent turns in order
		assert.Equal(t, conv[length-4:], pruned[1:], "length %d", length)
	}
}

func TestPruneWithoutSystemMessage(t *testing.T) {
	conv := conversationOfLength(12, false)
	pruned := Prune(conv, 4)

	require.Len(t, pruned, 4)
	assert.Equal(t, conv[8:], pruned)
}

func TestPruneDoesNotMutateInput(t *testing.T) {
	conv := conversationOfLength(10, true)
	before := make([]llm.Message, len(conv))
	copy(before, conv)

	Prune(conv, 3)
	assert.Equal(t, before, conv)
}

func TestTitle(t *testing.T) {
	conv := []llm.Message{
		{Role: llm.RoleSystem, Content: "system"},
		{Role: llm.RoleUser, Content: `"What does this mean?"`},
	}
	assert.Equal(t, "What does this mean?", Title(conv))

	assert.Equal(t, "New Chat", Title(nil))
}

func TestComposeSystemPromptAppendsLanguageInstruction(t *testing.T) {
	composed := ComposeSystemPrompt("Explain the passage.")
	assert.Contains(t, composed, "Explain the passage.")
	assert.Contains(t, composed, languageInstruction)
}

func TestComposeSystemPromptSkipsTranslatePrompts(t *testing.T) {
	for _, prompt := range []string{
		"Translate the passage into English.",
		"You are a TRANSLATE bot.",
		"please translate this",
	} {
		assert.Equal(t, prompt, ComposeSystemPrompt(prompt))
	}
}
