package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/providers/redis"

	"go.uber.org/zap"
)

type Service interface {
	Create(msg *Message, boardIDs []uint64) (*Message, error)
	GetByID(ctx context.Context, id uint64) (*Message, error)
	FindMostRecent(userID uint64, before time.Time) (*Message, error)
	AttachEnrichment(messageID uint64, preview Preview) error
	SetEnrichmentStatus(messageID uint64, status string) error
	UpdateMediaURL(messageID uint64, mediaURL string) error
	ListByBoard(ctx context.Context, boardID uint64, page int, limit int) ([]*Message, int64, error)
}

type service struct {
	repo        Repository
	redisP      *redis.RedisProvider
	logger      *zap.SugaredLogger
	cachePrefix string
}

func NewService(repo Repository, redisP *redis.RedisProvider, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		redisP:      redisP,
		logger:      logger.Sugar(),
		cachePrefix: "messages:board",
	}
}

func (s *service) Create(msg *Message, boardIDs []uint64) (*Message, error) {
	created, err := s.repo.Create(msg, boardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	for _, boardID := range boardIDs {
		s.invalidateBoardCache(boardID)
	}

	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*Message, error) {
	return s.repo.GetByID(id)
}

func (s *service) FindMostRecent(userID uint64, before time.Time) (*Message, error) {
	return s.repo.FindMostRecent(userID, before)
}

func (s *service) AttachEnrichment(messageID uint64, preview Preview) error {
	return s.repo.AttachEnrichment(messageID, preview)
}

func (s *service) SetEnrichmentStatus(messageID uint64, status string) error {
	return s.repo.SetEnrichmentStatus(messageID, status)
}

func (s *service) UpdateMediaURL(messageID uint64, mediaURL string) error {
	return s.repo.UpdateMediaURL(messageID, mediaURL)
}

func (s *service) ListByBoard(ctx context.Context, boardID uint64, page int, limit int) ([]*Message, int64, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("%s:%d:page:%d:limit:%d", s.cachePrefix, boardID, page, limit)
	var result struct {
		Messages []*Message `json:"messages"`
		Total    int64      `json:"total"`
	}

	if s.redisP != nil {
		cachedData, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cachedData != "" {
			if json.Unmarshal([]byte(cachedData), &result) == nil {
				return result.Messages, result.Total, nil
			}
		}
	}

	messages, total, err := s.repo.ListByBoard(boardID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	if len(messages) > 0 && s.redisP != nil {
		result.Messages = messages
		result.Total = total
		data, _ := json.Marshal(result)
		s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
	}

	return messages, total, nil
}

func (s *service) invalidateBoardCache(boardID uint64) {
	if s.redisP == nil {
		return
	}
	ctx := context.Background()
	// Page cache is short-lived; drop only the first page which is the one
	// clients poll.
	for _, limit := range []int{20, 100} {
		key := fmt.Sprintf("%s:%d:page:1:limit:%d", s.cachePrefix, boardID, limit)
		if err := s.redisP.Del(ctx, key).Err(); err != nil {
			s.logger.Debugw("Failed to invalidate board cache", "board_id", boardID, "error", err)
		}
	}
}
