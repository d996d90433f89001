package notification

import (
	"fmt"
	"log"

	"github.com/chnm/relcensus-backend/internal/auth"
	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/utils"
)

type Service interface {
	census.Notifier

	ListForUser(userID uint, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
	UnreadCount(userID uint) (int64, error)
}

type service struct {
	repo  Repository
	users auth.Repository
}

func NewService(repo Repository, users auth.Repository) Service {
	return &service{repo: repo, users: users}
}

func (s *service) ListForUser(userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	return s.repo.ListForUser(userID, unreadOnly, limit)
}

func (s *service) MarkRead(userID, notificationID uint) error {
	return s.repo.MarkRead(userID, notificationID)
}

func (s *service) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}

func (s *service) UnreadCount(userID uint) (int64, error) {
	return s.repo.UnreadCount(userID)
}

// notify writes one in-app row. Failures are logged only: notifications must
// never break the workflow action that triggered them.
func (s *service) notify(userID uint, title, message string, schedule *census.CensusSchedule) {
	n := &InAppNotification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		ScheduleID: &schedule.ID,
		ResourceID: schedule.ResourceID,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("❌ Failed to create notification for user %d: %v", userID, err)
	}
}

// ScheduleAssigned notifies the transcriber who just received a schedule.
func (s *service) ScheduleAssigned(schedule *census.CensusSchedule, transcriberID uint) {
	title := "Schedule assigned to you"
	message := fmt.Sprintf("Schedule %s has been assigned to you for transcription.", schedule.ResourceID)
	s.notify(transcriberID, title, message, schedule)

	user, err := s.users.FindByID(transcriberID)
	if err != nil {
		log.Printf("⚠️ Cannot load user %d for assignment email: %v", transcriberID, err)
		return
	}
	if err := utils.SendAssignmentEmail(user.Email, schedule.ScheduleTitle, schedule.ResourceID); err != nil {
		log.Printf("⚠️ Failed to send assignment email to %s: %v", user.Email, err)
	}
}

// ScheduleNeedsReview fans out to every reviewer, preferring the assigned one.
func (s *service) ScheduleNeedsReview(schedule *census.CensusSchedule) {
	title := "Schedule ready for review"
	message := fmt.Sprintf("Schedule %s has transcribed data waiting for review.", schedule.ResourceID)

	if schedule.AssignedReviewerID != nil {
		s.notify(*schedule.AssignedReviewerID, title, message, schedule)

		user, err := s.users.FindByID(*schedule.AssignedReviewerID)
		if err == nil {
			if err := utils.SendReviewRequestEmail(user.Email, schedule.ScheduleTitle, schedule.ResourceID); err != nil {
				log.Printf("⚠️ Failed to send review email to %s: %v", user.Email, err)
			}
		}
		return
	}

	reviewerIDs, err := s.users.GetUserIDsByRole(auth.RoleReviewer)
	if err != nil {
		log.Printf("⚠️ Cannot load reviewers for fan-out: %v", err)
		return
	}
	for _, id := range reviewerIDs {
		s.notify(id, title, message, schedule)
	}

	emails, err := s.users.GetUserEmailsByRole(auth.RoleReviewer)
	if err != nil {
		log.Printf("⚠️ Cannot load reviewer emails for fan-out: %v", err)
		return
	}
	for _, addr := range emails {
		if err := utils.SendReviewRequestEmail(addr, schedule.ScheduleTitle, schedule.ResourceID); err != nil {
			log.Printf("⚠️ Failed to send review email to %s: %v", addr, err)
		}
	}
}

// ScheduleApproved tells the transcriber their work was accepted.
func (s *service) ScheduleApproved(schedule *census.CensusSchedule) {
	if schedule.AssignedTranscriberID == nil {
		return
	}
	title := "Transcription approved"
	message := fmt.Sprintf("Your transcription of schedule %s has been approved.", schedule.ResourceID)
	s.notify(*schedule.AssignedTranscriberID, title, message, schedule)
}
