package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/location"
)

// fakeStore keeps everything in maps so the pipeline runs without a database.
type fakeStore struct {
	nextID        uint
	schedules     map[string]*census.CensusSchedule
	bodies        map[uint]*census.ReligiousBody
	memberships   map[uint]*census.Membership
	clergy        map[uint]map[bool]*census.Clergy
	denominations map[string]*denomination.Denomination
	locations     map[string]*location.Location
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules:     map[string]*census.CensusSchedule{},
		bodies:        map[uint]*census.ReligiousBody{},
		memberships:   map[uint]*census.Membership{},
		clergy:        map[uint]map[bool]*census.Clergy{},
		denominations: map[string]*denomination.Denomination{},
		locations:     map[string]*location.Location{},
	}
}

func (s *fakeStore) Transaction(fn func(tx Store) error) error {
	return fn(s)
}

func (s *fakeStore) FindScheduleByResourceID(resourceID string) (*census.CensusSchedule, error) {
	if schedule, ok := s.schedules[resourceID]; ok {
		return schedule, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) SaveSchedule(schedule *census.CensusSchedule) error {
	if schedule.ID == 0 {
		s.nextID++
		schedule.ID = s.nextID
	}
	s.schedules[schedule.ResourceID] = schedule
	return nil
}

func (s *fakeStore) FindBodyBySchedule(scheduleID uint) (*census.ReligiousBody, error) {
	if body, ok := s.bodies[scheduleID]; ok {
		return body, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) SaveBody(body *census.ReligiousBody) error {
	if body.ID == 0 {
		s.nextID++
		body.ID = s.nextID
	}
	s.bodies[body.CensusScheduleID] = body
	return nil
}

func (s *fakeStore) FindMembershipBySchedule(scheduleID uint) (*census.Membership, error) {
	if m, ok := s.memberships[scheduleID]; ok {
		return m, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) SaveMembership(m *census.Membership) error {
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	}
	s.memberships[m.CensusScheduleID] = m
	return nil
}

func (s *fakeStore) FindClergy(scheduleID uint, isAssistant bool) (*census.Clergy, error) {
	if c, ok := s.clergy[scheduleID][isAssistant]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) SaveClergy(c *census.Clergy) error {
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
	}
	if s.clergy[c.CensusScheduleID] == nil {
		s.clergy[c.CensusScheduleID] = map[bool]*census.Clergy{}
	}
	s.clergy[c.CensusScheduleID][c.IsAssistant] = c
	return nil
}

func (s *fakeStore) FindDenomination(denominationID string) (*denomination.Denomination, error) {
	if d, ok := s.denominations[denominationID]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) FindLocation(placeID string) (*location.Location, error) {
	if loc, ok := s.locations[placeID]; ok {
		return loc, nil
	}
	return nil, ErrNotFound
}

func testErrorLog(t *testing.T) *ErrorLog {
	t.Helper()
	errlog, err := NewErrorLog(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { errlog.Close() })
	return errlog
}

func fullRow() Row {
	return Row{
		"resource_id":                 "schedule-0001",
		"schedule_title":              "First Baptist Church",
		"reviewed":                    "1",
		"is_approved":                 "1",
		"denomination_id":             "D-014",
		"place_id":                    "P-220",
		"name":                        "First Baptist Church",
		"address":                     "120 Main St",
		"num_edifices":                "1",
		"edifice_value":               "12500",
		"has_pastors_residence":       "Yes",
		"total_members_by_sex":        "310",
		"male_members":                "140",
		"female_members":              "170",
		"pastor_name":                 "J. H. Smith",
		"pastor_college":              "Howard",
		"pastor_serving_congregation": "Yes",
		"assistant_count":             "1",
		"assistant_name":              "A. Brown",
	}
}

func TestPipelineCreatesFullRecord(t *testing.T) {
	store := newFakeStore()
	store.denominations["D-014"] = &denomination.Denomination{ID: 900, DenominationID: "D-014"}
	store.locations["P-220"] = &location.Location{ID: 901, PlaceID: "P-220"}

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(fullRow())

	summary := p.Summary()
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Warnings)

	schedule := store.schedules["schedule-0001"]
	require.NotNil(t, schedule)
	assert.Equal(t, census.StatusApproved, schedule.TranscriptionStatus)

	body := store.bodies[schedule.ID]
	require.NotNil(t, body)
	require.NotNil(t, body.DenominationID)
	assert.Equal(t, uint(900), *body.DenominationID)
	require.NotNil(t, body.LocationID)
	assert.Equal(t, uint(901), *body.LocationID)
	require.NotNil(t, body.NumEdifices)
	assert.Equal(t, 1, *body.NumEdifices)
	require.NotNil(t, body.HasPastorsResidence)
	assert.True(t, *body.HasPastorsResidence)

	m := store.memberships[schedule.ID]
	require.NotNil(t, m)
	require.NotNil(t, m.TotalMembersBySex)
	assert.Equal(t, 310, *m.TotalMembersBySex)

	require.NotNil(t, store.clergy[schedule.ID][false])
	assert.Equal(t, "J. H. Smith", store.clergy[schedule.ID][false].Name)
	require.NotNil(t, store.clergy[schedule.ID][true])
	assert.Equal(t, "A. Brown", store.clergy[schedule.ID][true].Name)
}

func TestPipelineIdempotent(t *testing.T) {
	store := newFakeStore()
	store.denominations["D-014"] = &denomination.Denomination{ID: 900, DenominationID: "D-014"}
	store.locations["P-220"] = &location.Location{ID: 901, PlaceID: "P-220"}

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(fullRow())
	p.ProcessRow(fullRow())

	summary := p.Summary()
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	assert.Len(t, store.schedules, 1)
	assert.Len(t, store.bodies, 1)
	assert.Len(t, store.memberships, 1)
	assert.Len(t, store.clergy[store.schedules["schedule-0001"].ID], 2)
}

func TestPipelinePreservesGarbageAndCompletesRow(t *testing.T) {
	store := newFakeStore()

	row := fullRow()
	row["edifice_value"] = "abt 1200"
	delete(row, "denomination_id")
	delete(row, "place_id")

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(row)

	summary := p.Summary()
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)

	body := store.bodies[store.schedules["schedule-0001"].ID]
	require.NotNil(t, body)
	assert.Nil(t, body.EdificeValue)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(body.RawValues, &raw))
	assert.Equal(t, "abt 1200", raw["edifice_value"])
}

func TestPipelineMembershipAndClergyGarbagePreserved(t *testing.T) {
	store := newFakeStore()

	row := fullRow()
	row["male_members"] = "abt 140"
	row["pastor_num_other_churches"] = "two"
	delete(row, "denomination_id")
	delete(row, "place_id")

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(row)

	summary := p.Summary()
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)

	schedule := store.schedules["schedule-0001"]
	require.NotNil(t, schedule)

	m := store.memberships[schedule.ID]
	require.NotNil(t, m)
	assert.Nil(t, m.MaleMembers)

	pastor := store.clergy[schedule.ID][false]
	require.NotNil(t, pastor)
	assert.Nil(t, pastor.NumOtherChurchesServed)

	body := store.bodies[schedule.ID]
	require.NotNil(t, body)
	var raw map[string]string
	require.NoError(t, json.Unmarshal(body.RawValues, &raw))
	assert.Equal(t, "abt 140", raw["male_members"])
	assert.Equal(t, "two", raw["pastor_num_other_churches"])
}

func TestPipelineLookupMissesWarnAndContinue(t *testing.T) {
	store := newFakeStore()

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(fullRow())

	summary := p.Summary()
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Warnings)

	body := store.bodies[store.schedules["schedule-0001"].ID]
	require.NotNil(t, body)
	assert.Nil(t, body.DenominationID)
	assert.Nil(t, body.LocationID)
}

func TestPipelineNoLocationSentinel(t *testing.T) {
	store := newFakeStore()
	store.denominations["D-014"] = &denomination.Denomination{ID: 900, DenominationID: "D-014"}

	row := fullRow()
	row["place_id"] = "no location"

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(row)

	summary := p.Summary()
	assert.Equal(t, 0, summary.Warnings, "the no-location convention is not a lookup miss")

	body := store.bodies[store.schedules["schedule-0001"].ID]
	assert.Nil(t, body.LocationID)
}

func TestPipelineClergyRules(t *testing.T) {
	store := newFakeStore()

	row := fullRow()
	row["pastor_name"] = "MISSING"
	row["assistant_count"] = "0"
	delete(row, "denomination_id")
	delete(row, "place_id")

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(row)

	scheduleID := store.schedules["schedule-0001"].ID
	assert.Nil(t, store.clergy[scheduleID][false], "sentinel pastor name must not create a row")
	assert.Nil(t, store.clergy[scheduleID][true], "zero assistants must not create a row")
}

func TestPipelineAssistantNeedsCountAndName(t *testing.T) {
	store := newFakeStore()

	row := fullRow()
	row["assistant_count"] = "2"
	row["assistant_name"] = "ILLEGIBLE"
	delete(row, "denomination_id")
	delete(row, "place_id")

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(row)

	scheduleID := store.schedules["schedule-0001"].ID
	assert.Nil(t, store.clergy[scheduleID][true])
}

func TestPipelineStatusKeptOnReimport(t *testing.T) {
	store := newFakeStore()

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(fullRow())

	// An admin moved the schedule back; a plain re-import must not undo that.
	store.schedules["schedule-0001"].TranscriptionStatus = census.StatusInProgress
	p.ProcessRow(fullRow())
	assert.Equal(t, census.StatusInProgress, store.schedules["schedule-0001"].TranscriptionStatus)

	// With reset the legacy flags win again.
	reset := NewPipeline(store, testErrorLog(t), true)
	reset.ProcessRow(fullRow())
	assert.Equal(t, census.StatusApproved, store.schedules["schedule-0001"].TranscriptionStatus)
}

func TestPipelineMissingResourceID(t *testing.T) {
	store := newFakeStore()

	p := NewPipeline(store, testErrorLog(t), false)
	p.ProcessRow(Row{"schedule_title": "No ID"})

	summary := p.Summary()
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, store.schedules)
}
