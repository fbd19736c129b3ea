package domain

import "time"

// Message senders. The wire values are fixed, the front-end renders chat
// bubbles off them.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is a single chat turn stored on a project. The whole history is
// persisted as one JSON document column so a chat turn is a single record
// update.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"` // SenderUser or SenderAI
	Timestamp time.Time `json:"timestamp"`
}

// Project is a generated site owned by a user. DomainName is unique across
// all projects and doubles as the deployment name at the hosting provider.
type Project struct {
	ID         string
	UserID     string
	Name       string
	DomainName string
	Category   string
	URL        string // public URL once deployed, empty before
	Messages   []Message
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
