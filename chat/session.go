package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"book-companion/db"
	"book-companion/llm"
	"book-companion/utils"
)

// maxConversationMessages bounds the window fed to the backend once a
// session has progressed past its first exchange.
const maxConversationMessages = 20

// Session owns one dialog's conversation from the moment the reader opens
// the assistant until the dialog closes. It is not safe for concurrent use;
// the host issues one request at a time per session.
type Session struct {
	ID string

	engine *llm.Engine
	store  *db.Store
	log    *utils.Logger
	opts   llm.RequestOptions

	conv      []llm.Message
	mode      string
	exchanges int
}

// NewSession starts a dialog session with the default system prompt.
func NewSession(engine *llm.Engine, store *db.Store, log *utils.Logger, opts llm.RequestOptions) *Session {
	return &Session{
		ID:     uuid.NewString(),
		engine: engine,
		store:  store,
		log:    log,
		opts:   opts,
		conv:   []llm.Message{{Role: llm.RoleSystem, Content: DefaultSystemPrompt}},
	}
}

// SetMode switches to a custom prompt mode. Each mode starts a fresh thread:
// prior turns are discarded and the conversation is reseeded with the mode's
// system prompt and the highlighted passage as context. Without a highlight
// the context turn is skipped; an empty user message must never go out.
func (s *Session) SetMode(name, prompt, contextText string) {
	composed := ComposeSystemPrompt(prompt)
	if contextText == "" {
		s.conv = []llm.Message{{Role: llm.RoleSystem, Content: composed}}
	} else {
		s.conv = ResetForPrompt(composed, contextText)
	}
	s.mode = name
	s.exchanges = 0
}

// Mode returns the active prompt mode name, or "" for the default prompt.
func (s *Session) Mode() string {
	return s.mode
}

// Messages returns a snapshot of the conversation.
func (s *Session) Messages() []llm.Message {
	out := make([]llm.Message, len(s.conv))
	copy(out, s.conv)
	return out
}

// AskAboutText asks a question about a highlighted passage. The passage is
// folded into the user turn; an empty highlight degrades to a plain Ask.
func (s *Session) AskAboutText(ctx context.Context, highlight, question string) (string, error) {
	if highlight == "" {
		return s.Ask(ctx, question)
	}
	return s.Ask(ctx, fmt.Sprintf("I'm reading this passage:\n\n%s\n\n%s", highlight, question))
}

// Ask runs one exchange: append the question, prune, call the backend,
// append the reply, archive the snapshot. On failure the question is rolled
// back so a retry does not duplicate it.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	s.conv = AppendUser(s.conv, question)
	if s.exchanges > 0 {
		s.conv = Prune(s.conv, maxConversationMessages)
	}

	reply, err := s.engine.Ask(ctx, s.conv, s.opts)
	if err != nil {
		s.conv = s.conv[:len(s.conv)-1]
		return "", err
	}

	s.conv = AppendAssistant(s.conv, reply)
	s.exchanges++
	s.archive()

	return reply, nil
}

// archive snapshots the conversation into the history store. Store failures
// are logged and otherwise ignored.
func (s *Session) archive() {
	if s.store == nil {
		return
	}

	entry := db.HistoryEntry{
		Title:        Title(s.conv),
		RenderedText: s.Transcript(),
		CreatedAt:    time.Now().Unix(),
		Conversation: s.Messages(),
	}
	if err := s.store.Append(entry); err != nil {
		s.log.Warn("failed to archive conversation: %v", err)
	}
}

// Transcript renders the user/assistant turns for the history browser.
func (s *Session) Transcript() string {
	var b strings.Builder
	for _, msg := range s.conv {
		switch msg.Role {
		case llm.RoleUser:
			fmt.Fprintf(&b, "You: %s\n\n", msg.Content)
		case llm.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n\n", msg.Content)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
