package db

import "book-companion/llm"

// HistoryEntry represents one archived exchange: the dialog title, the
// rendered transcript shown in the history browser, and the full
// conversation snapshot.
type HistoryEntry struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	RenderedText string        `json:"rendered_text"`
	CreatedAt    int64         `json:"created_at"` // unix seconds
	Conversation []llm.Message `json:"conversation"`
}
