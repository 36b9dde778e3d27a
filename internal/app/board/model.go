package board

import "time"

const (
	VisibilityPrivate = "private"
	VisibilityShared  = "shared"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Board is a tag namespace. Private boards are scoped to one user and unique
// on (owner_id, name); shared board names are globally unique (partial index,
// see db.Migrate).
type Board struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null;uniqueIndex:idx_boards_owner_name"`
	Visibility string    `json:"visibility" gorm:"not null;default:'private'"`
	OwnerID    uint64    `json:"owner_id" gorm:"not null;uniqueIndex:idx_boards_owner_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *Board) IsShared() bool {
	return b.Visibility == VisibilityShared
}

// BoardMembership governs read/write access to shared boards. Exactly one
// owner row is created with the board; private boards carry no memberships.
type BoardMembership struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	BoardID   uint64    `json:"board_id" gorm:"not null;uniqueIndex:idx_memberships_board_user"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_memberships_board_user"`
	Role      string    `json:"role" gorm:"not null;default:'member'"`
	InvitedBy *uint64   `json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BoardListResponse struct {
	Boards []*Board `json:"boards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
