package user

import (
	"fmt"

	"go.uber.org/zap"
)

type Service interface {
	GetByID(id uint64) (*User, error)
	ResolveByPhoneNumber(phone string) (*User, error)
	UpdateProfile(userID uint64, displayName string) error
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Sugar(),
	}
}

func (s *service) GetByID(id uint64) (*User, error) {
	return s.repo.GetByID(id)
}

// ResolveByPhoneNumber creates the account on first contact.
func (s *service) ResolveByPhoneNumber(phone string) (*User, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}

	user, err := s.repo.GetOrCreateByPhoneNumber(phone)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user by phone number: %w", err)
	}

	return user, nil
}

func (s *service) UpdateProfile(userID uint64, displayName string) error {
	if err := s.repo.UpdateDisplayName(userID, displayName); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	s.logger.Infow("User profile updated", "user_id", userID)
	return nil
}
