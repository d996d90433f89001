package auditlog

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(entry *AuditLog) error
	List(filter Filter) ([]AuditLog, int64, error)
}

// Filter narrows the audit trail listing.
type Filter struct {
	UserID     *uint
	ScheduleID *uint
	Action     string
	Page       int
	PageSize   int
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(entry *AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *repository) List(filter Filter) ([]AuditLog, int64, error) {
	query := r.db.Model(&AuditLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ScheduleID != nil {
		query = query.Where("schedule_id = ?", *filter.ScheduleID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var entries []AuditLog
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}
