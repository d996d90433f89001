package notification

import "time"

// InAppNotification is one message shown to a user in the admin interface.
type InAppNotification struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Title      string `gorm:"size:255;not null" json:"title"`
	Message    string `gorm:"type:text" json:"message"`
	ScheduleID *uint  `gorm:"index" json:"schedule_id"`
	ResourceID string `gorm:"size:100" json:"resource_id"`
	IsRead     bool   `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}
