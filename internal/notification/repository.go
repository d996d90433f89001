package notification

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(n *InAppNotification) error
	ListForUser(userID uint, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
	UnreadCount(userID uint) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(n *InAppNotification) error {
	return r.db.Create(n).Error
}

func (r *repository) ListForUser(userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var notifications []InAppNotification
	err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *repository) MarkRead(userID, notificationID uint) error {
	return r.db.Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func (r *repository) MarkAllRead(userID uint) error {
	return r.db.Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *repository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
