package analytics

import (
	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/census"
)

type Service interface {
	Query(filter QueryFilter) ([]QueryRow, error)
	Dashboard() (*Dashboard, error)
	Completeness() ([]FieldCompleteness, error)
}

// Dashboard is the project status overview.
type Dashboard struct {
	StatusCounts      []StatusCount       `json:"status_counts"`
	TotalSchedules    int64               `json:"total_schedules"`
	CompletionPercent float64             `json:"completion_percent"`
	TopTranscribers   []TranscriberStat   `json:"top_transcribers"`
	RecentActivity    []auditlog.AuditLog `json:"recent_activity"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo}
}

func (s *service) Query(filter QueryFilter) ([]QueryRow, error) {
	return s.repo.Query(filter)
}

// Dashboard assembles the status breakdown, completion rate, most productive
// transcribers, and the latest workflow activity.
func (s *service) Dashboard() (*Dashboard, error) {
	counts, err := s.repo.StatusCounts()
	if err != nil {
		return nil, err
	}

	var total, done int64
	for _, c := range counts {
		total += c.Count
		if c.Status == census.StatusCompleted || c.Status == census.StatusApproved {
			done += c.Count
		}
	}

	dashboard := &Dashboard{
		StatusCounts:   counts,
		TotalSchedules: total,
	}
	if total > 0 {
		dashboard.CompletionPercent = float64(done) / float64(total) * 100
	}

	dashboard.TopTranscribers, err = s.repo.TopTranscribers(5)
	if err != nil {
		return nil, err
	}

	dashboard.RecentActivity, err = s.repo.RecentActivity(10)
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (s *service) Completeness() ([]FieldCompleteness, error) {
	return s.repo.Completeness()
}
