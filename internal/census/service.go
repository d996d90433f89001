package census

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/auth"
	"github.com/chnm/relcensus-backend/utils"
)

// Notifier receives workflow events for in-app and email fan-out. The
// notification package implements it.
type Notifier interface {
	ScheduleAssigned(schedule *CensusSchedule, transcriberID uint)
	ScheduleNeedsReview(schedule *CensusSchedule)
	ScheduleApproved(schedule *CensusSchedule)
}

type Service interface {
	List(filter ScheduleFilter) ([]CensusSchedule, int64, error)
	GetByResourceID(resourceID string) (*CensusSchedule, error)
	GetByID(id uint) (*CensusSchedule, error)
	ListBodies(familyCensus, denominationID, search string, page, pageSize int) ([]ReligiousBody, int64, error)
	GetBody(id uint) (*ReligiousBody, error)
	MapData(filter MapFilter) ([]MapMarker, error)

	SaveAsActor(schedule *CensusSchedule, actor *auth.User, ip string) error
	SetStatus(scheduleID uint, status string, actor *auth.User, ip string) (*CensusSchedule, error)
	BulkSetStatus(scheduleIDs []uint, status string, actor *auth.User, ip string) (int, error)
	Assign(scheduleID uint, transcriberID, reviewerID *uint, actor *auth.User, ip string) (*CensusSchedule, error)
}

type service struct {
	repo     Repository
	audit    auditlog.Service
	notifier Notifier
}

func NewService(repo Repository, audit auditlog.Service, notifier Notifier) Service {
	return &service{repo: repo, audit: audit, notifier: notifier}
}

var ErrInvalidStatus = errors.New("invalid transcription status")

func (s *service) List(filter ScheduleFilter) ([]CensusSchedule, int64, error) {
	return s.repo.List(filter)
}

func (s *service) GetByResourceID(resourceID string) (*CensusSchedule, error) {
	return s.repo.FindByResourceID(resourceID)
}

func (s *service) GetByID(id uint) (*CensusSchedule, error) {
	return s.repo.FindByID(id)
}

func (s *service) ListBodies(familyCensus, denominationID, search string, page, pageSize int) ([]ReligiousBody, int64, error) {
	return s.repo.ListBodies(familyCensus, denominationID, search, page, pageSize)
}

func (s *service) GetBody(id uint) (*ReligiousBody, error) {
	return s.repo.FindBodyByID(id)
}

func (s *service) MapData(filter MapFilter) ([]MapMarker, error) {
	return s.repo.MapData(filter)
}

// SaveAsActor persists a schedule edited through the application, running the
// automatic workflow transitions for the acting user's role.
func (s *service) SaveAsActor(schedule *CensusSchedule, actor *auth.User, ip string) error {
	hasChildRows, err := s.repo.HasChildRows(schedule.ID)
	if err != nil {
		return err
	}

	actorIsTranscriber := actor != nil && actor.Role.RoleName == auth.RoleTranscriber
	before := schedule.TranscriptionStatus
	schedule.TranscriptionStatus = NextStatusOnSave(
		before,
		schedule.AssignedTranscriberID != nil,
		actorIsTranscriber,
		hasChildRows,
	)

	if err := s.repo.Save(schedule); err != nil {
		return err
	}

	if schedule.TranscriptionStatus != before {
		s.recordTransition(schedule, before, actor, ip, auditlog.ActionScheduleSave)
	}
	return nil
}

// SetStatus is the admin action: any valid status may be set, including
// reverting an approved schedule.
func (s *service) SetStatus(scheduleID uint, status string, actor *auth.User, ip string) (*CensusSchedule, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	schedule, err := s.repo.FindByID(scheduleID)
	if err != nil {
		return nil, err
	}

	before := schedule.TranscriptionStatus
	schedule.TranscriptionStatus = status
	if err := s.repo.Save(schedule); err != nil {
		return nil, err
	}

	if status != before {
		s.recordTransition(schedule, before, actor, ip, auditlog.ActionStatusChange)
	}
	return schedule, nil
}

// BulkSetStatus applies one status to many schedules. Schedules that cannot be
// loaded are skipped with a warning; the whole batch is recorded as a single
// audit entry.
func (s *service) BulkSetStatus(scheduleIDs []uint, status string, actor *auth.User, ip string) (int, error) {
	if !IsValidStatus(status) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	updated := 0
	for _, id := range scheduleIDs {
		schedule, err := s.repo.FindByID(id)
		if err != nil {
			log.Printf("⚠️ Bulk status change skipping schedule %d: %v", id, err)
			continue
		}

		before := schedule.TranscriptionStatus
		if before == status {
			continue
		}

		schedule.TranscriptionStatus = status
		if err := s.repo.Save(schedule); err != nil {
			return updated, err
		}

		s.publishEvent("schedule.status_changed", schedule, before)
		updated++
	}

	var actorID *uint
	actorEmail := ""
	if actor != nil {
		actorID = &actor.ID
		actorEmail = actor.Email
	}
	s.audit.Record(actorID, actorEmail, auditlog.ActionBulkStatusSet, nil, "", ip, map[string]interface{}{
		"schedule_ids": scheduleIDs,
		"status":       status,
		"updated":      updated,
	})

	return updated, nil
}

// Assign sets the transcriber and/or reviewer and runs the unassigned to
// assigned transition.
func (s *service) Assign(scheduleID uint, transcriberID, reviewerID *uint, actor *auth.User, ip string) (*CensusSchedule, error) {
	schedule, err := s.repo.FindByID(scheduleID)
	if err != nil {
		return nil, err
	}

	before := schedule.TranscriptionStatus
	if transcriberID != nil {
		schedule.AssignedTranscriberID = transcriberID
	}
	if reviewerID != nil {
		schedule.AssignedReviewerID = reviewerID
	}

	schedule.TranscriptionStatus = NextStatusOnSave(
		before,
		schedule.AssignedTranscriberID != nil,
		false,
		false,
	)

	if err := s.repo.Save(schedule); err != nil {
		return nil, err
	}

	var actorID *uint
	actorEmail := ""
	if actor != nil {
		actorID = &actor.ID
		actorEmail = actor.Email
	}
	s.audit.Record(actorID, actorEmail, auditlog.ActionAssign, &schedule.ID, schedule.ResourceID, ip, map[string]interface{}{
		"transcriber_id": transcriberID,
		"reviewer_id":    reviewerID,
		"status_before":  before,
		"status_after":   schedule.TranscriptionStatus,
	})

	if transcriberID != nil && s.notifier != nil {
		s.notifier.ScheduleAssigned(schedule, *transcriberID)
	}
	s.publishEvent("schedule.assigned", schedule, before)

	return schedule, nil
}

func (s *service) recordTransition(schedule *CensusSchedule, before string, actor *auth.User, ip, action string) {
	var actorID *uint
	actorEmail := ""
	if actor != nil {
		actorID = &actor.ID
		actorEmail = actor.Email
	}

	s.audit.Record(actorID, actorEmail, action, &schedule.ID, schedule.ResourceID, ip, map[string]interface{}{
		"status_before": before,
		"status_after":  schedule.TranscriptionStatus,
	})

	switch schedule.TranscriptionStatus {
	case StatusNeedsReview:
		if s.notifier != nil {
			s.notifier.ScheduleNeedsReview(schedule)
		}
		s.publishEvent("schedule.needs_review", schedule, before)
	case StatusApproved:
		if s.notifier != nil {
			s.notifier.ScheduleApproved(schedule)
		}
		s.publishEvent("schedule.approved", schedule, before)
	default:
		s.publishEvent("schedule.status_changed", schedule, before)
	}
}

func (s *service) publishEvent(event string, schedule *CensusSchedule, before string) {
	err := utils.PublishWorkflowEvent(context.Background(), schedule.ResourceID, map[string]interface{}{
		"event":         event,
		"schedule_id":   schedule.ID,
		"resource_id":   schedule.ResourceID,
		"status_before": before,
		"status_after":  schedule.TranscriptionStatus,
	})
	if err != nil {
		log.Printf("⚠️ Failed to publish workflow event %s for %s: %v", event, schedule.ResourceID, err)
	}
}
