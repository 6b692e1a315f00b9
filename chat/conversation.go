package chat

import (
	"strings"

	"book-companion/llm"
)

// AppendUser appends a user turn. Empty-input validation is the caller's
// responsibility.
func AppendUser(conv []llm.Message, text string) []llm.Message {
	return append(conv, llm.Message{Role: llm.RoleUser, Content: text})
}

// AppendAssistant appends an assistant turn.
func AppendAssistant(conv []llm.Message, text string) []llm.Message {
	return append(conv, llm.Message{Role: llm.RoleAssistant, Content: text})
}

// ResetForPrompt starts a fresh two-message thread: the mode's system prompt
// followed by the user-supplied context. Used when switching prompt modes;
// prior turns are discarded.
func ResetForPrompt(systemPrompt, contextText string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: contextText},
	}
}

// Prune bounds the conversation to maxMessages, keeping a leading system
// message plus the most recent turns. The input is never mutated; a
// conversation already within the bound is returned unchanged.
func Prune(conv []llm.Message, maxMessages int) []llm.Message {
	if maxMessages <= 0 || len(conv) <= maxMessages {
		return conv
	}

	keep := maxMessages
	var pruned []llm.Message
	if conv[0].Role == llm.RoleSystem {
		pruned = append(pruned, conv[0])
		keep--
	}
	return append(pruned, conv[len(conv)-keep:]...)
}

// Title derives a history title from the first user turn, normalized the
// same way generated chat titles are: trimmed, unquoted, length-capped.
func Title(conv []llm.Message) string {
	for _, msg := range conv {
		if msg.Role == llm.RoleUser {
			return cleanTitle(msg.Content)
		}
	}
	return cleanTitle("")
}

// cleanTitle cleans up a title by removing quotes and extra whitespace
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, "\"'")
	title = strings.TrimSpace(title)

	if line, _, found := strings.Cut(title, "\n"); found {
		title = strings.TrimSpace(line)
	}
	if runes := []rune(title); len(runes) > 100 {
		title = string(runes[:100]) + "..."
	}
	if title == "" {
		title = "New Chat"
	}

	return title
}
