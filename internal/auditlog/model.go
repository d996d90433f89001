package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of workflow and admin actions. Rows are
// written by services, never updated or deleted.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id"`
	UserEmail  string         `gorm:"size:255" json:"user_email"`
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	ScheduleID *uint          `gorm:"index" json:"schedule_id"`
	ResourceID string         `gorm:"size:100;index" json:"resource_id"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress  string         `gorm:"size:45" json:"ip_address"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Action names recorded by the workflow and import services.
const (
	ActionStatusChange  = "schedule.status_change"
	ActionAssign        = "schedule.assign"
	ActionImportRun     = "import.run"
	ActionGeocodeRun    = "geocode.run"
	ActionLogin         = "auth.login"
	ActionScheduleSave  = "schedule.save"
	ActionBulkStatusSet = "schedule.bulk_status_set"
)
