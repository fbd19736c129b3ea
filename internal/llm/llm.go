// Package llm provides the language-model client used for template and
// chat generation.
package llm

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation sent to the model.
type Turn struct {
	Role    string
	Content string
}

// Client generates an assistant reply for the given conversation.
type Client interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
}
