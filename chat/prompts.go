package chat

import "strings"

// DefaultSystemPrompt is used when no prompt mode is active.
const DefaultSystemPrompt = "You are a helpful reading companion. Answer questions about the passage the reader highlighted."

// languageInstruction is appended to mode prompts so replies come back in
// the book's language rather than defaulting to English.
const languageInstruction = "Reply in the same language as the highlighted passage."

// ComposeSystemPrompt appends the language instruction to a mode prompt.
// Translation prompts already dictate the output language, so any prompt
// mentioning "translate" (matched case-insensitively) is left untouched.
func ComposeSystemPrompt(prompt string) string {
	if strings.Contains(strings.ToLower(prompt), "translate") {
		return prompt
	}
	return prompt + "\n\n" + languageInstruction
}
