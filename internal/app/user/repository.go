package user

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(id uint64) (*User, error)
	GetByPhoneNumber(phone string) (*User, error)
	GetOrCreateByPhoneNumber(phone string) (*User, error)
	UpdateDisplayName(userID uint64, displayName string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id uint64) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByPhoneNumber(phone string) (*User, error) {
	var user User
	err := r.db.Where("phone_number = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByPhoneNumber relies on the unique index on phone_number: a
// conflicting concurrent insert is a no-op and the following read returns the
// winner's row.
func (r *repository) GetOrCreateByPhoneNumber(phone string) (*User, error) {
	user := &User{PhoneNumber: phone}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetByPhoneNumber(phone)
}

func (r *repository) UpdateDisplayName(userID uint64, displayName string) error {
	return r.db.Model(&User{}).
		Where("id = ?", userID).
		Update("display_name", displayName).Error
}
