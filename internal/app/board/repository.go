package board

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetOrCreatePrivate(ownerID uint64, name string) (*Board, error)
	FindSharedByName(name string) (*Board, error)
	CreateShared(name string, ownerID uint64) (*Board, error)
	AddMember(boardID uint64, userID uint64, role string, invitedBy *uint64) error
	IsMember(userID uint64, boardID uint64) (bool, error)
	ListForUser(userID uint64) ([]*Board, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetOrCreatePrivate is the atomic first-use path: the insert is a no-op when
// another request already created the (owner_id, name) row, and the re-read
// returns whichever row won.
func (r *repository) GetOrCreatePrivate(ownerID uint64, name string) (*Board, error) {
	board := &Board{
		Name:       name,
		Visibility: VisibilityPrivate,
		OwnerID:    ownerID,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(board).Error
	if err != nil {
		return nil, err
	}

	var existing Board
	err = r.db.Where("owner_id = ? AND name = ? AND visibility = ?",
		ownerID, name, VisibilityPrivate).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *repository) FindSharedByName(name string) (*Board, error) {
	var board Board
	err := r.db.Where("name = ? AND visibility = ?", name, VisibilityShared).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// CreateShared inserts the board and its owner membership in one transaction
// so a shared board never exists without exactly one owner.
func (r *repository) CreateShared(name string, ownerID uint64) (*Board, error) {
	board := &Board{
		Name:       name,
		Visibility: VisibilityShared,
		OwnerID:    ownerID,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		membership := &BoardMembership{
			BoardID: board.ID,
			UserID:  ownerID,
			Role:    RoleOwner,
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (r *repository) AddMember(boardID uint64, userID uint64, role string, invitedBy *uint64) error {
	membership := &BoardMembership{
		BoardID:   boardID,
		UserID:    userID,
		Role:      role,
		InvitedBy: invitedBy,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "board_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(membership).Error
}

func (r *repository) IsMember(userID uint64, boardID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&BoardMembership{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns the user's private boards plus every shared board they
// are a member of, oldest first.
func (r *repository) ListForUser(userID uint64) ([]*Board, error) {
	var boards []*Board
	err := r.db.
		Joins("LEFT JOIN board_memberships ON board_memberships.board_id = boards.id").
		Where("(boards.visibility = ? AND boards.owner_id = ?) OR board_memberships.user_id = ?",
			VisibilityPrivate, userID, userID).
		Group("boards.id").
		Order("boards.created_at ASC").
		Find(&boards).Error
	return boards, err
}
