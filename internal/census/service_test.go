package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/auth"
)

type fakeRepo struct {
	schedules map[uint]*CensusSchedule
	saves     int
}

func newFakeRepo(schedules ...*CensusSchedule) *fakeRepo {
	r := &fakeRepo{schedules: map[uint]*CensusSchedule{}}
	for _, s := range schedules {
		r.schedules[s.ID] = s
	}
	return r
}

func (r *fakeRepo) FindByResourceID(resourceID string) (*CensusSchedule, error) {
	for _, s := range r.schedules {
		if s.ResourceID == resourceID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindByID(id uint) (*CensusSchedule, error) {
	if s, ok := r.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) List(filter ScheduleFilter) ([]CensusSchedule, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Save(schedule *CensusSchedule) error {
	r.schedules[schedule.ID] = schedule
	r.saves++
	return nil
}

func (r *fakeRepo) HasChildRows(scheduleID uint) (bool, error) { return false, nil }

func (r *fakeRepo) FindBodyBySchedule(scheduleID uint) (*ReligiousBody, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) SaveBody(body *ReligiousBody) error { return nil }
func (r *fakeRepo) FindMembershipBySchedule(scheduleID uint) (*Membership, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) SaveMembership(m *Membership) error { return nil }
func (r *fakeRepo) FindClergy(scheduleID uint, isAssistant bool) (*Clergy, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) SaveClergy(c *Clergy) error { return nil }

func (r *fakeRepo) ListBodies(familyCensus, denominationID, search string, page, pageSize int) ([]ReligiousBody, int64, error) {
	return nil, 0, nil
}
func (r *fakeRepo) FindBodyByID(id uint) (*ReligiousBody, error)  { return nil, gorm.ErrRecordNotFound }
func (r *fakeRepo) MapData(filter MapFilter) ([]MapMarker, error) { return nil, nil }

func (r *fakeRepo) BodiesNeedingGeocode(limit int) ([]ReligiousBody, error) { return nil, nil }
func (r *fakeRepo) SchedulesNeedingImages(limit int, startFrom string, force bool) ([]CensusSchedule, error) {
	return nil, nil
}

func (r *fakeRepo) DB() *gorm.DB { return nil }

type fakeAudit struct {
	actions []string
	details []map[string]interface{}
}

func (a *fakeAudit) Record(userID *uint, userEmail, action string, scheduleID *uint, resourceID, ip string, details map[string]interface{}) {
	a.actions = append(a.actions, action)
	a.details = append(a.details, details)
}

func (a *fakeAudit) List(filter auditlog.Filter) ([]auditlog.AuditLog, int64, error) {
	return nil, 0, nil
}

func reviewer() *auth.User {
	return &auth.User{
		ID:    7,
		Email: "reviewer@example.org",
		Role:  auth.UserRole{RoleName: auth.RoleReviewer},
	}
}

func TestBulkSetStatus(t *testing.T) {
	repo := newFakeRepo(
		&CensusSchedule{ID: 1, ResourceID: "r-1", TranscriptionStatus: StatusNeedsReview},
		&CensusSchedule{ID: 2, ResourceID: "r-2", TranscriptionStatus: StatusCompleted},
		&CensusSchedule{ID: 3, ResourceID: "r-3", TranscriptionStatus: StatusNeedsReview},
	)
	audit := &fakeAudit{}
	svc := NewService(repo, audit, nil)

	updated, err := svc.BulkSetStatus([]uint{1, 2, 3}, StatusCompleted, reviewer(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated, "the schedule already at the target status does not count")

	for _, id := range []uint{1, 2, 3} {
		assert.Equal(t, StatusCompleted, repo.schedules[id].TranscriptionStatus)
	}

	require.Len(t, audit.actions, 1, "one batch, one audit entry")
	assert.Equal(t, auditlog.ActionBulkStatusSet, audit.actions[0])
	assert.Equal(t, 2, audit.details[0]["updated"])
}

func TestBulkSetStatusSkipsMissingSchedules(t *testing.T) {
	repo := newFakeRepo(&CensusSchedule{ID: 1, ResourceID: "r-1", TranscriptionStatus: StatusAssigned})
	svc := NewService(repo, &fakeAudit{}, nil)

	updated, err := svc.BulkSetStatus([]uint{1, 99}, StatusInProgress, reviewer(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestBulkSetStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo(&CensusSchedule{ID: 1, ResourceID: "r-1"})
	svc := NewService(repo, &fakeAudit{}, nil)

	_, err := svc.BulkSetStatus([]uint{1}, "archived", reviewer(), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
