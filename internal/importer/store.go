package importer

import (
	"errors"

	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/location"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// Store is the persistence surface the pipeline writes through. The gorm
// implementation is used in production; tests swap in an in-memory fake.
type Store interface {
	// Transaction runs fn atomically; the pipeline wraps each row in one.
	Transaction(fn func(tx Store) error) error

	FindScheduleByResourceID(resourceID string) (*census.CensusSchedule, error)
	SaveSchedule(schedule *census.CensusSchedule) error
	FindBodyBySchedule(scheduleID uint) (*census.ReligiousBody, error)
	SaveBody(body *census.ReligiousBody) error
	FindMembershipBySchedule(scheduleID uint) (*census.Membership, error)
	SaveMembership(m *census.Membership) error
	FindClergy(scheduleID uint, isAssistant bool) (*census.Clergy, error)
	SaveClergy(c *census.Clergy) error

	FindDenomination(denominationID string) (*denomination.Denomination, error)
	FindLocation(placeID string) (*location.Location, error)
}

type gormStore struct{ db *gorm.DB }

// NewStore wraps a gorm handle as a pipeline Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db}
}

func (s *gormStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *gormStore) FindScheduleByResourceID(resourceID string) (*census.CensusSchedule, error) {
	var schedule census.CensusSchedule
	if err := s.db.Where("resource_id = ?", resourceID).First(&schedule).Error; err != nil {
		return nil, notFound(err)
	}
	return &schedule, nil
}

func (s *gormStore) SaveSchedule(schedule *census.CensusSchedule) error {
	return s.db.Save(schedule).Error
}

func (s *gormStore) FindBodyBySchedule(scheduleID uint) (*census.ReligiousBody, error) {
	var body census.ReligiousBody
	if err := s.db.Where("census_schedule_id = ?", scheduleID).First(&body).Error; err != nil {
		return nil, notFound(err)
	}
	return &body, nil
}

func (s *gormStore) SaveBody(body *census.ReligiousBody) error {
	return s.db.Save(body).Error
}

func (s *gormStore) FindMembershipBySchedule(scheduleID uint) (*census.Membership, error) {
	var m census.Membership
	if err := s.db.Where("census_schedule_id = ?", scheduleID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *gormStore) SaveMembership(m *census.Membership) error {
	return s.db.Save(m).Error
}

func (s *gormStore) FindClergy(scheduleID uint, isAssistant bool) (*census.Clergy, error) {
	var c census.Clergy
	err := s.db.Where("census_schedule_id = ? AND is_assistant = ?", scheduleID, isAssistant).First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *gormStore) SaveClergy(c *census.Clergy) error {
	return s.db.Save(c).Error
}

func (s *gormStore) FindDenomination(denominationID string) (*denomination.Denomination, error) {
	var d denomination.Denomination
	if err := s.db.Where("denomination_id = ?", denominationID).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *gormStore) FindLocation(placeID string) (*location.Location, error) {
	var loc location.Location
	if err := s.db.Where("place_id = ?", placeID).First(&loc).Error; err != nil {
		return nil, notFound(err)
	}
	return &loc, nil
}
