package auditlog

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"
)

type Service interface {
	Record(userID *uint, userEmail, action string, scheduleID *uint, resourceID, ip string, details map[string]interface{})
	List(filter Filter) ([]AuditLog, int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo}
}

// Record writes one audit entry. Failures are logged, never surfaced: the audit
// trail must not break the action it describes.
func (s *service) Record(userID *uint, userEmail, action string, scheduleID *uint, resourceID, ip string, details map[string]interface{}) {
	var detailsJSON datatypes.JSON
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.Printf("⚠️ Failed to marshal audit details for %s: %v", action, err)
		} else {
			detailsJSON = datatypes.JSON(data)
		}
	}

	entry := &AuditLog{
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     action,
		ScheduleID: scheduleID,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  ip,
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("❌ Failed to write audit log (%s): %v", action, err)
	}
}

func (s *service) List(filter Filter) ([]AuditLog, int64, error) {
	return s.repo.List(filter)
}
