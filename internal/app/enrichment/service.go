package enrichment

import (
	"context"

	"backend/internal/app/message"
	"backend/internal/utils"

	"go.uber.org/zap"
)

// Fetcher extracts preview metadata for a URL. PreviewFetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (message.Preview, error)
}

// Store is the slice of message persistence enrichment writes through.
// message.Service satisfies it.
type Store interface {
	AttachEnrichment(messageID uint64, preview message.Preview) error
	SetEnrichmentStatus(messageID uint64, status string) error
	UpdateMediaURL(messageID uint64, mediaURL string) error
}

// MediaMirror copies provider-hosted media into owned storage.
// minio.MinioProvider satisfies it.
type MediaMirror interface {
	MirrorFromURL(ctx context.Context, srcURL string, contentType string) (string, error)
}

// Service turns persisted-message follow-up work into dispatcher jobs.
// Everything here is best-effort: a failed job leaves the message without
// preview metadata (status "failed") and is never retried.
type Service struct {
	dispatcher *Dispatcher
	fetcher    Fetcher
	store      Store
	media      MediaMirror
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewService(
	dispatcher *Dispatcher,
	fetcher Fetcher,
	store Store,
	media MediaMirror,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) *Service {
	return &Service{
		dispatcher: dispatcher,
		fetcher:    fetcher,
		store:      store,
		media:      media,
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

// EnqueuePreview schedules a link-preview fetch for the message. The caller
// has already persisted the message with status "pending" and does not wait.
func (s *Service) EnqueuePreview(messageID uint64, url string) {
	s.dispatcher.Submit(func(ctx context.Context) error {
		preview, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.logger.Warnw("Link preview fetch failed",
				"message_id", messageID, "url", url, "error", err)
			if err := s.store.SetEnrichmentStatus(messageID, message.EnrichmentFailed); err != nil {
				s.logger.Errorw("Failed to mark enrichment failed",
					"message_id", messageID, "error", err)
			}
			s.publish(utils.EventEnrichmentFailed, messageID, message.Preview{})
			return err
		}

		if err := s.store.AttachEnrichment(messageID, preview); err != nil {
			s.logger.Errorw("Failed to attach enrichment",
				"message_id", messageID, "error", err)
			return err
		}

		s.logger.Infow("Link preview attached",
			"message_id", messageID, "url", url, "title", preview.Title)
		s.publish(utils.EventEnrichmentComplete, messageID, preview)
		return nil
	})
}

// EnqueueMediaMirror schedules copying carrier-hosted media into our bucket.
// Failure keeps the original provider URL on the message.
func (s *Service) EnqueueMediaMirror(messageID uint64, mediaURL string, mediaType string) {
	if s.media == nil {
		return
	}
	s.dispatcher.Submit(func(ctx context.Context) error {
		mirrored, err := s.media.MirrorFromURL(ctx, mediaURL, mediaType)
		if err != nil {
			s.logger.Warnw("Media mirror failed, keeping provider URL",
				"message_id", messageID, "url", mediaURL, "error", err)
			return err
		}

		if err := s.store.UpdateMediaURL(messageID, mirrored); err != nil {
			s.logger.Errorw("Failed to update media URL",
				"message_id", messageID, "error", err)
			return err
		}

		s.logger.Infow("Media mirrored", "message_id", messageID, "mirrored_url", mirrored)
		return nil
	})
}

func (s *Service) publish(event string, messageID uint64, preview message.Preview) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(event, map[string]interface{}{
		"message_id": messageID,
		"preview":    preview,
	})
}
