package ingest

import (
	"context"
	"fmt"
	"time"

	"backend/internal/app/board"
	"backend/internal/app/classifier"
	"backend/internal/app/message"
	"backend/internal/utils"

	"go.uber.org/zap"
)

// MessageStore is the persistence surface the orchestrator writes through.
// message.Service satisfies it.
type MessageStore interface {
	MessageHistory
	Create(msg *message.Message, boardIDs []uint64) (*message.Message, error)
}

// BoardResolver maps tags to boards with the membership policy applied.
// board.Service satisfies it.
type BoardResolver interface {
	Resolve(userID uint64, tag string) (*board.Board, error)
	CandidateNames(userID uint64) ([]string, error)
}

// Suggester is the categorization fallback for tagless messages.
// classifier.Service satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, content string, candidates []string) (classifier.Suggestion, bool)
}

// Enricher receives fire-and-forget post-persistence work.
// enrichment.Service satisfies it.
type Enricher interface {
	EnqueuePreview(messageID uint64, url string)
	EnqueueMediaMirror(messageID uint64, mediaURL string, mediaType string)
}

type Service interface {
	// Ingest runs one inbound message through dedup, tagging, board
	// resolution and persistence. It returns once the message is persisted
	// (or skipped as a duplicate); enrichment continues in the background.
	// Only persistence failures are returned as errors.
	Ingest(ctx context.Context, raw RawMessage) (*Result, error)
}

type service struct {
	store       MessageStore
	boards      BoardResolver
	guard       DedupGuard
	inheritance *InheritanceResolver
	suggester   Suggester
	enricher    Enricher
	eventBus    *utils.EventBus
	locks       *userLocks
	logger      *zap.SugaredLogger
	now         func() time.Time
}

func NewService(
	store MessageStore,
	boards BoardResolver,
	guard DedupGuard,
	inheritance *InheritanceResolver,
	suggester Suggester,
	enricher Enricher,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		store:       store,
		boards:      boards,
		guard:       guard,
		inheritance: inheritance,
		suggester:   suggester,
		enricher:    enricher,
		eventBus:    eventBus,
		locks:       newUserLocks(),
		logger:      logger.Sugar(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Ingest(ctx context.Context, raw RawMessage) (*Result, error) {
	ok, err := s.guard.Reserve(ctx, raw.ProviderMessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve provider message id: %w", err)
	}
	if !ok {
		s.logger.Infow("Duplicate delivery skipped",
			"provider_message_id", raw.ProviderMessageID, "user_id", raw.UserID)
		return &Result{Status: StatusSkipped}, nil
	}

	unlock := s.locks.Lock(raw.UserID)
	defer unlock()

	at := s.now()

	tags, source := s.resolveTags(ctx, raw, at)

	boards, boardIDs, err := s.resolveBoards(raw.UserID, tags)
	if err != nil {
		s.guard.Release(ctx, raw.ProviderMessageID)
		return nil, err
	}

	previewURL := ExtractURL(raw.Content)

	msg := &message.Message{
		UserID:           raw.UserID,
		SenderID:         raw.SenderID,
		Content:          raw.Content,
		Tags:             tags,
		EnrichmentStatus: message.EnrichmentNone,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	if raw.ProviderMessageID != "" {
		id := raw.ProviderMessageID
		msg.ProviderMessageID = &id
	}
	if raw.MediaURL != "" {
		mediaURL := raw.MediaURL
		msg.MediaURL = &mediaURL
	}
	if raw.MediaType != "" {
		mediaType := raw.MediaType
		msg.MediaType = &mediaType
	}
	if previewURL != "" {
		msg.EnrichmentStatus = message.EnrichmentPending
	}

	persisted, err := s.store.Create(msg, boardIDs)
	if err != nil {
		// Free the dedup reservation so the carrier's retry is not swallowed.
		s.guard.Release(ctx, raw.ProviderMessageID)
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	s.logger.Infow("Message ingested",
		"message_id", persisted.ID,
		"user_id", raw.UserID,
		"tag_source", source,
		"tags", tags,
		"boards", len(boardIDs),
	)

	if s.eventBus != nil {
		s.eventBus.Publish(utils.EventMessageIngested, IngestedEvent{
			MessageID: persisted.ID,
			UserID:    persisted.UserID,
			Tags:      tags,
			TagSource: source,
			BoardIDs:  boardIDs,
			CreatedAt: persisted.CreatedAt,
		})
	}

	if s.enricher != nil {
		if previewURL != "" {
			s.enricher.EnqueuePreview(persisted.ID, previewURL)
		}
		if raw.MediaURL != "" {
			s.enricher.EnqueueMediaMirror(persisted.ID, raw.MediaURL, raw.MediaType)
		}
	}

	return &Result{
		Status:    StatusPersisted,
		TagSource: source,
		Message:   persisted,
		Boards:    boards,
	}, nil
}

// resolveTags applies the tagging ladder: explicit tags win, then hashtags in
// the text, then inheritance from the previous message, then the classifier.
// A message that falls through every rung stays untagged. Nothing on this
// ladder may fail ingestion; lookup errors degrade to the next rung.
func (s *service) resolveTags(ctx context.Context, raw RawMessage, at time.Time) ([]string, string) {
	tags := normalizeTags(raw.ExplicitTags)
	if len(tags) > 0 {
		return tags, TagSourceExplicit
	}

	tags = ExtractTags(raw.Content)
	if len(tags) > 0 {
		return tags, TagSourceExplicit
	}

	if s.inheritance != nil {
		inherited, err := s.inheritance.Resolve(raw.UserID, at)
		if err != nil {
			s.logger.Warnw("Tag inheritance lookup failed", "user_id", raw.UserID, "error", err)
		} else if len(inherited) > 0 {
			return inherited, TagSourceInherited
		}
	}

	if s.suggester != nil {
		candidates, err := s.boards.CandidateNames(raw.UserID)
		if err != nil {
			s.logger.Warnw("Failed to list candidate boards for classifier",
				"user_id", raw.UserID, "error", err)
		} else if len(candidates) > 0 {
			if suggestion, ok := s.suggester.Suggest(ctx, raw.Content, candidates); ok {
				return []string{suggestion.Category}, TagSourceAI
			}
		}
	}

	return nil, TagSourceNone
}

func (s *service) resolveBoards(userID uint64, tags []string) ([]*board.Board, []uint64, error) {
	if len(tags) == 0 {
		return nil, nil, nil
	}

	boards := make([]*board.Board, 0, len(tags))
	boardIDs := make([]uint64, 0, len(tags))
	seen := make(map[uint64]struct{}, len(tags))

	for _, tag := range tags {
		b, err := s.boards.Resolve(userID, tag)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve board for tag %q: %w", tag, err)
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		boards = append(boards, b)
		boardIDs = append(boardIDs, b.ID)
	}

	return boards, boardIDs, nil
}

func normalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		tag := normalizeTag(t)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
