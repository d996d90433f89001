package analytics

import (
	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/census"
)

// QueryFilter carries every filter of the analytics query screen.
type QueryFilter struct {
	Denomination string
	Family       string
	State        string
	County       string
	City         string
	Status       string
	HasClergy    *bool
	MinMembers   *int
	MaxMembers   *int
	Limit        int
}

// QueryRow is one result of the analytics query, shaped for export.
type QueryRow struct {
	ScheduleID        string   `json:"schedule_id"`
	ReligiousBodyName string   `json:"religious_body_name"`
	Denomination      string   `json:"denomination"`
	State             string   `json:"state"`
	County            string   `json:"county"`
	City              string   `json:"city"`
	Address           string   `json:"address"`
	NumEdifices       *int     `json:"num_edifices"`
	EdificeValue      *float64 `json:"edifice_value"`
	Status            string   `json:"transcription_status"`
}

// StatusCount is one slice of the dashboard status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TranscriberStat ranks a transcriber by finished schedules.
type TranscriberStat struct {
	UserID    uint   `json:"user_id"`
	FullName  string `json:"full_name"`
	Completed int64  `json:"completed"`
}

// FieldCompleteness is the fill rate of one transcribed column.
type FieldCompleteness struct {
	Field   string  `json:"field"`
	Filled  int64   `json:"filled"`
	Total   int64   `json:"total"`
	Percent float64 `json:"percent"`
}

type Repository interface {
	Query(filter QueryFilter) ([]QueryRow, error)
	StatusCounts() ([]StatusCount, error)
	TopTranscribers(limit int) ([]TranscriberStat, error)
	RecentActivity(limit int) ([]auditlog.AuditLog, error)
	Completeness() ([]FieldCompleteness, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

const maxQueryRows = 10000

func (r *repository) Query(filter QueryFilter) ([]QueryRow, error) {
	query := r.db.Model(&census.CensusSchedule{}).
		Select(`census_schedules.resource_id AS schedule_id,
			rb.name AS religious_body_name,
			d.name AS denomination,
			l.state,
			l.county,
			l.city,
			rb.address,
			rb.num_edifices,
			rb.edifice_value,
			census_schedules.transcription_status AS status`).
		Joins("LEFT JOIN religious_bodies rb ON rb.census_schedule_id = census_schedules.id").
		Joins("LEFT JOIN denominations d ON d.id = rb.denomination_id").
		Joins("LEFT JOIN locations l ON l.id = rb.location_id")

	if filter.Denomination != "" {
		query = query.Where("d.denomination_id = ?", filter.Denomination)
	}
	if filter.Family != "" {
		query = query.Where("d.family_census = ?", filter.Family)
	}
	if filter.State != "" {
		query = query.Where("l.state = ?", filter.State)
	}
	if filter.County != "" {
		query = query.Where("l.county ILIKE ?", "%"+filter.County+"%")
	}
	if filter.City != "" {
		query = query.Where("l.city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.Status != "" {
		query = query.Where("census_schedules.transcription_status = ?", filter.Status)
	}
	if filter.HasClergy != nil {
		sub := "EXISTS (SELECT 1 FROM clergy c WHERE c.census_schedule_id = census_schedules.id)"
		if *filter.HasClergy {
			query = query.Where(sub)
		} else {
			query = query.Where("NOT " + sub)
		}
	}
	if filter.MinMembers != nil || filter.MaxMembers != nil {
		query = query.Joins("LEFT JOIN memberships m ON m.census_schedule_id = census_schedules.id")
		members := "COALESCE(m.total_members_by_sex, COALESCE(m.male_members, 0) + COALESCE(m.female_members, 0), 0)"
		if filter.MinMembers != nil {
			query = query.Where(members+" >= ?", *filter.MinMembers)
		}
		if filter.MaxMembers != nil {
			query = query.Where(members+" <= ?", *filter.MaxMembers)
		}
	}

	limit := filter.Limit
	if limit < 1 || limit > maxQueryRows {
		limit = maxQueryRows
	}

	var rows []QueryRow
	err := query.Order("census_schedules.resource_id ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *repository) StatusCounts() ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&census.CensusSchedule{}).
		Select("transcription_status AS status, COUNT(*) AS count").
		Group("transcription_status").
		Scan(&counts).Error
	return counts, err
}

func (r *repository) TopTranscribers(limit int) ([]TranscriberStat, error) {
	if limit < 1 {
		limit = 5
	}
	var stats []TranscriberStat
	err := r.db.Model(&census.CensusSchedule{}).
		Select("u.id AS user_id, u.full_name, COUNT(*) AS completed").
		Joins("JOIN users u ON u.id = census_schedules.assigned_transcriber_id").
		Where("census_schedules.transcription_status IN ?", []string{census.StatusCompleted, census.StatusApproved}).
		Group("u.id, u.full_name").
		Order("completed DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

func (r *repository) RecentActivity(limit int) ([]auditlog.AuditLog, error) {
	if limit < 1 {
		limit = 10
	}
	var entries []auditlog.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// Completeness reports the fill rate of the transcribed body and membership
// columns, nil meaning the value was missing or illegible on the form.
func (r *repository) Completeness() ([]FieldCompleteness, error) {
	bodyColumns := []string{
		"num_edifices", "edifice_value", "edifice_debt", "has_pastors_residence",
		"residence_value", "residence_debt", "expenses", "benevolences",
		"total_expenditures",
	}
	membershipColumns := []string{
		"total_members_by_sex", "male_members", "female_members",
		"members_under_13", "members_13_and_older", "sunday_schools",
		"sunday_school_scholars",
	}

	var results []FieldCompleteness

	collect := func(table string, columns []string) error {
		var total int64
		if err := r.db.Table(table).Count(&total).Error; err != nil {
			return err
		}
		for _, col := range columns {
			var filled int64
			if err := r.db.Table(table).Where(col + " IS NOT NULL").Count(&filled).Error; err != nil {
				return err
			}
			fc := FieldCompleteness{Field: table + "." + col, Filled: filled, Total: total}
			if total > 0 {
				fc.Percent = float64(filled) / float64(total) * 100
			}
			results = append(results, fc)
		}
		return nil
	}

	if err := collect("religious_bodies", bodyColumns); err != nil {
		return nil, err
	}
	if err := collect("memberships", membershipColumns); err != nil {
		return nil, err
	}

	return results, nil
}
