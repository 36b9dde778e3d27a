package board

import (
	"fmt"

	"go.uber.org/zap"
)

type Service interface {
	// Resolve maps a tag to the board messages with that tag land on for the
	// given user. A tag matching a shared board name resolves to that board
	// only for members; non-members get a private board of the same name
	// instead of silently losing the tag.
	Resolve(userID uint64, tag string) (*Board, error)
	AuthorizeWrite(userID uint64, b *Board) (bool, error)
	CreateShared(name string, ownerID uint64) (*Board, error)
	AddMember(boardID uint64, userID uint64, invitedBy *uint64) error
	ListForUser(userID uint64) ([]*Board, error)
	// CandidateNames is the closed candidate set handed to the categorization
	// fallback: names of every board the user can write to.
	CandidateNames(userID uint64) ([]string, error)
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

func (s *service) Resolve(userID uint64, tag string) (*Board, error) {
	shared, err := s.repo.FindSharedByName(tag)
	if err != nil {
		return nil, fmt.Errorf("failed to look up shared board: %w", err)
	}

	if shared != nil {
		member, err := s.repo.IsMember(userID, shared.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check board membership: %w", err)
		}
		if member {
			return shared, nil
		}
		s.logger.Debugw("Shared board name shadowed by private tag",
			"user_id", userID, "tag", tag, "shared_board_id", shared.ID)
	}

	private, err := s.repo.GetOrCreatePrivate(userID, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create private board: %w", err)
	}
	return private, nil
}

func (s *service) AuthorizeWrite(userID uint64, b *Board) (bool, error) {
	if !b.IsShared() {
		return b.OwnerID == userID, nil
	}
	return s.repo.IsMember(userID, b.ID)
}

func (s *service) CreateShared(name string, ownerID uint64) (*Board, error) {
	existing, err := s.repo.FindSharedByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up shared board: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("shared board %q already exists", name)
	}

	board, err := s.repo.CreateShared(name, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared board: %w", err)
	}
	s.logger.Infow("Shared board created", "board_id", board.ID, "name", name, "owner_id", ownerID)
	return board, nil
}

func (s *service) AddMember(boardID uint64, userID uint64, invitedBy *uint64) error {
	if err := s.repo.AddMember(boardID, userID, RoleMember, invitedBy); err != nil {
		return fmt.Errorf("failed to add board member: %w", err)
	}
	return nil
}

func (s *service) ListForUser(userID uint64) ([]*Board, error) {
	return s.repo.ListForUser(userID)
}

func (s *service) CandidateNames(userID uint64) ([]string, error) {
	boards, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(boards))
	seen := make(map[string]struct{}, len(boards))
	for _, b := range boards {
		if _, ok := seen[b.Name]; ok {
			continue
		}
		seen[b.Name] = struct{}{}
		names = append(names, b.Name)
	}
	return names, nil
}
