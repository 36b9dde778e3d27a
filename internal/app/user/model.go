package user

import "time"

// User identity is keyed by phone number: the first inbound message from an
// unknown number creates the account.
type User struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	PhoneNumber string    `json:"phone_number" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=64"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
