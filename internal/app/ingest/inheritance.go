package ingest

import (
	"fmt"
	"time"

	"backend/internal/app/message"
)

// MessageHistory is the slice of the message store the inheritance resolver
// needs: the user's most recent message at or before an instant.
type MessageHistory interface {
	FindMostRecent(userID uint64, before time.Time) (*message.Message, error)
}

// InheritanceResolver lets an untagged message adopt the tags of the sender's
// immediately preceding message. SMS users routinely send "#recipes dinner
// ideas" followed seconds later by a bare URL meant for the same board; the
// window keeps that second message out of the untagged bucket.
type InheritanceResolver struct {
	history MessageHistory
	window  time.Duration
}

func NewInheritanceResolver(history MessageHistory, window time.Duration) *InheritanceResolver {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &InheritanceResolver{history: history, window: window}
}

// Resolve returns the tags the message arriving at `at` should inherit, or
// nil when no prior message falls inside the window or the prior message
// carried no tags.
func (r *InheritanceResolver) Resolve(userID uint64, at time.Time) ([]string, error) {
	prev, err := r.history.FindMostRecent(userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to look up most recent message: %w", err)
	}
	if prev == nil {
		return nil, nil
	}
	if at.Sub(prev.CreatedAt) > r.window {
		return nil, nil
	}
	if len(prev.Tags) == 0 {
		return nil, nil
	}

	tags := make([]string, len(prev.Tags))
	copy(tags, prev.Tags)
	return tags, nil
}
