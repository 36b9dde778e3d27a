package message

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(msg *Message, boardIDs []uint64) (*Message, error)
	GetByID(id uint64) (*Message, error)
	// FindMostRecent returns the user's latest message created at or before
	// the given instant; ties on created_at resolve to the highest id
	// (insertion order).
	FindMostRecent(userID uint64, before time.Time) (*Message, error)
	AttachEnrichment(messageID uint64, preview Preview) error
	SetEnrichmentStatus(messageID uint64, status string) error
	UpdateMediaURL(messageID uint64, mediaURL string) error
	ListByBoard(boardID uint64, page int, limit int) ([]*Message, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(msg *Message, boardIDs []uint64) (*Message, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		for _, boardID := range boardIDs {
			link := &MessageBoard{MessageID: msg.ID, BoardID: boardID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *repository) GetByID(id uint64) (*Message, error) {
	var msg Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repository) FindMostRecent(userID uint64, before time.Time) (*Message, error) {
	var msg Message
	err := r.db.
		Where("user_id = ? AND created_at <= ?", userID, before).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repository) AttachEnrichment(messageID uint64, preview Preview) error {
	return r.db.Model(&Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"preview_title":       preview.Title,
			"preview_description": preview.Description,
			"preview_image_url":   preview.ImageURL,
			"enrichment_status":   EnrichmentComplete,
		}).Error
}

func (r *repository) SetEnrichmentStatus(messageID uint64, status string) error {
	return r.db.Model(&Message{}).
		Where("id = ?", messageID).
		Update("enrichment_status", status).Error
}

func (r *repository) UpdateMediaURL(messageID uint64, mediaURL string) error {
	return r.db.Model(&Message{}).
		Where("id = ?", messageID).
		Update("media_url", mediaURL).Error
}

func (r *repository) ListByBoard(boardID uint64, page int, limit int) ([]*Message, int64, error) {
	var messages []*Message
	var total int64
	offset := (page - 1) * limit

	err := r.db.Table("messages").
		Joins("JOIN message_boards ON message_boards.message_id = messages.id").
		Where("message_boards.board_id = ?", boardID).
		Order("messages.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.Model(&MessageBoard{}).Where("board_id = ?", boardID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
