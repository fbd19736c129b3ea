package service

import (
	"context"
	"fmt"
	"time"

	"github.com/corethink/backend/internal/llm"
	"github.com/corethink/backend/pkg/idx"
	"github.com/corethink/backend/pkg/slogx"
)

// ChatMessage is one entry of the client-held template conversation. The
// history lives on the client and is replayed with every request; nothing
// here touches the store.
type ChatMessage struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Sender         string     `json:"sender"` // "user" or "assistant"
	Timestamp      time.Time  `json:"timestamp"`
	GeneratedPages []llm.Page `json:"generatedPages,omitempty"`
}

// GenerateResult is the outcome of one template generation turn.
type GenerateResult struct {
	Response            string        `json:"response"`
	GeneratedPages      []llm.Page    `json:"generatedPages"`
	ConversationHistory []ChatMessage `json:"conversationHistory"`
}

// ChatService generates site templates from free-form prompts.
type ChatService struct {
	LLM llm.Client
}

// GenerateTemplate sends the user prompts to the model under the template
// system prompt and parses the page array out of the reply.
func (s *ChatService) GenerateTemplate(ctx context.Context, message string, history []ChatMessage) (GenerateResult, error) {
	l := slogx.FromContext(ctx)

	// Only user prompts steer generation; prior assistant replies are a
	// fixed acknowledgement and add nothing.
	var turns []llm.Turn
	for _, m := range history {
		if m.Sender == "user" {
			turns = append(turns, llm.Turn{Role: llm.RoleUser, Content: m.Text})
		}
	}
	turns = append(turns, llm.Turn{Role: llm.RoleUser, Content: message})

	raw, err := s.LLM.Complete(ctx, llm.TemplatePrompt, turns)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("template generation: %w", err)
	}

	pages, err := llm.ExtractPages(raw)
	if err != nil {
		l.Warn("model reply had no parseable page array", "error", err)
		pages = []llm.Page{}
	}

	now := time.Now()
	userMsg := ChatMessage{
		ID:        idx.NewAt(now).String(),
		Text:      message,
		Sender:    "user",
		Timestamp: now,
	}
	assistantMsg := ChatMessage{
		ID:             idx.New().String(),
		Text:           "I've generated new pages based on your request!",
		Sender:         "assistant",
		Timestamp:      now,
		GeneratedPages: pages,
	}

	updated := append(append([]ChatMessage{}, history...), userMsg, assistantMsg)

	return GenerateResult{
		Response:            assistantMsg.Text,
		GeneratedPages:      pages,
		ConversationHistory: updated,
	}, nil
}

// CollectPages flattens every generated page out of a conversation history.
func (s *ChatService) CollectPages(history []ChatMessage) []llm.Page {
	pages := []llm.Page{}
	for _, m := range history {
		pages = append(pages, m.GeneratedPages...)
	}
	return pages
}
