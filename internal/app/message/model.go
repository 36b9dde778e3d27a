package message

import "time"

// Enrichment lifecycle of a persisted message. A message is fully usable in
// any of these states; enrichment only decorates it after the fact.
const (
	EnrichmentNone     = "none"
	EnrichmentPending  = "pending"
	EnrichmentComplete = "complete"
	EnrichmentFailed   = "failed"
)

type Message struct {
	ID                uint64    `json:"id" gorm:"primaryKey"`
	UserID            uint64    `json:"user_id" gorm:"not null;index"`
	SenderID          string    `json:"sender_id"`
	Content           string    `json:"content" gorm:"not null"`
	Tags              []string  `json:"tags" gorm:"serializer:json"`
	ProviderMessageID *string   `json:"provider_message_id,omitempty" gorm:"index"`
	MediaURL          *string   `json:"media_url,omitempty"`
	MediaType         *string   `json:"media_type,omitempty"`
	EnrichmentStatus  string    `json:"enrichment_status" gorm:"not null;default:'none'"`
	PreviewTitle      *string   `json:"preview_title,omitempty"`
	PreviewDesc       *string   `json:"preview_description,omitempty" gorm:"column:preview_description"`
	PreviewImageURL   *string   `json:"preview_image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MessageBoard links a message to each board its tags resolved to.
type MessageBoard struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	MessageID uint64    `json:"message_id" gorm:"not null;uniqueIndex:idx_message_boards_pair"`
	BoardID   uint64    `json:"board_id" gorm:"not null;uniqueIndex:idx_message_boards_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// Preview is the link metadata attached by the enrichment pipeline.
type Preview struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func (p Preview) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.ImageURL == ""
}

type MessageListResponse struct {
	Messages []*Message `json:"messages"`
	Total    int64      `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
