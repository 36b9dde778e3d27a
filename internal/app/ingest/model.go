package ingest

import (
	"time"

	"backend/internal/app/board"
	"backend/internal/app/message"
)

// RawMessage is the normalized inbound payload handed to Ingest by the
// webhook/UI collaborators.
type RawMessage struct {
	Content           string   `json:"content"`
	SenderID          string   `json:"sender_id"`
	UserID            uint64   `json:"user_id"`
	ProviderMessageID string   `json:"provider_message_id,omitempty"`
	MediaURL          string   `json:"media_url,omitempty"`
	MediaType         string   `json:"media_type,omitempty"`
	ExplicitTags      []string `json:"explicit_tags,omitempty"`
}

// Terminal pipeline states.
const (
	StatusPersisted = "persisted"
	StatusSkipped   = "skipped"
)

// How the persisted message got its tags.
const (
	TagSourceExplicit  = "explicit"
	TagSourceInherited = "inherited"
	TagSourceAI        = "ai"
	TagSourceNone      = "none"
)

// Result is what the caller gets back once the message reached a terminal
// state. Enrichment continues asynchronously after Persisted is returned.
type Result struct {
	Status    string           `json:"status"`
	TagSource string           `json:"tag_source,omitempty"`
	Message   *message.Message `json:"message,omitempty"`
	Boards    []*board.Board   `json:"boards,omitempty"`
}

func (r *Result) Skipped() bool {
	return r.Status == StatusSkipped
}

// IngestedEvent is the payload published on the event bus after persistence.
type IngestedEvent struct {
	MessageID uint64    `json:"message_id"`
	UserID    uint64    `json:"user_id"`
	Tags      []string  `json:"tags"`
	TagSource string    `json:"tag_source"`
	BoardIDs  []uint64  `json:"board_ids"`
	CreatedAt time.Time `json:"created_at"`
}
