package census

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chnm/relcensus-backend/internal/auth"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/location"
)

// Transcription workflow states.
const (
	StatusUnassigned  = "unassigned"
	StatusAssigned    = "assigned"
	StatusInProgress  = "in_progress"
	StatusNeedsReview = "needs_review"
	StatusCompleted   = "completed"
	StatusApproved    = "approved"
)

// ValidStatuses lists every workflow state in display order.
var ValidStatuses = []string{
	StatusUnassigned,
	StatusAssigned,
	StatusInProgress,
	StatusNeedsReview,
	StatusCompleted,
	StatusApproved,
}

// IsValidStatus reports whether s names a workflow state.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CensusSchedule is one physical schedule form. Deleting a schedule cascades
// to its religious body, membership, and clergy rows.
type CensusSchedule struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ResourceID    string `gorm:"size:100;unique;not null" json:"resource_id"`
	ScheduleTitle string `gorm:"size:500" json:"schedule_title"`
	ScheduleID    string `gorm:"size:100" json:"schedule_id"`
	BoxNumber     string `gorm:"size:50" json:"box_number"`
	Notes         string `gorm:"type:text" json:"notes"`

	TranscriptionStatus   string     `gorm:"size:20;default:'unassigned';index" json:"transcription_status"`
	AssignedTranscriberID *uint      `gorm:"index" json:"assigned_transcriber_id"`
	AssignedTranscriber   *auth.User `gorm:"foreignKey:AssignedTranscriberID" json:"assigned_transcriber,omitempty"`
	AssignedReviewerID    *uint      `gorm:"index" json:"assigned_reviewer_id"`
	AssignedReviewer      *auth.User `gorm:"foreignKey:AssignedReviewerID" json:"assigned_reviewer,omitempty"`
	TranscriptionNotes    string     `gorm:"type:text" json:"transcription_notes"`

	DatascribeOmekaItemID string `gorm:"size:100" json:"datascribe_omeka_item_id"`
	DatascribeItemID      string `gorm:"size:100" json:"datascribe_item_id"`
	DatascribeRecordID    string `gorm:"size:100" json:"datascribe_record_id"`
	OriginalImagePath     string `gorm:"size:500" json:"original_image_path"`
	OmekaStorageID        string `gorm:"size:255" json:"omeka_storage_id"`

	ReligiousBody *ReligiousBody `gorm:"foreignKey:CensusScheduleID;constraint:OnDelete:CASCADE" json:"religious_body,omitempty"`
	Membership    *Membership    `gorm:"foreignKey:CensusScheduleID;constraint:OnDelete:CASCADE" json:"membership,omitempty"`
	Clergy        []Clergy       `gorm:"foreignKey:CensusScheduleID;constraint:OnDelete:CASCADE" json:"clergy,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CensusSchedule) TableName() string {
	return "census_schedules"
}

// ReligiousBody holds the congregation details transcribed from a schedule.
// Count and money fields are pointers: nil means the value was missing or
// illegible on the form, which is different from zero. Values that failed
// numeric coercion are preserved verbatim in RawValues.
type ReligiousBody struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	CensusScheduleID uint `gorm:"unique;not null" json:"census_schedule_id"`

	DenominationID *uint                      `gorm:"index" json:"denomination_id"`
	Denomination   *denomination.Denomination `gorm:"foreignKey:DenominationID;constraint:OnDelete:RESTRICT" json:"denomination,omitempty"`
	LocationID     *uint                      `gorm:"index" json:"location_id"`
	Location       *location.Location         `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"location,omitempty"`

	Name           string `gorm:"size:500" json:"name"`
	CensusCode     string `gorm:"size:50" json:"census_code"`
	Division       string `gorm:"size:100" json:"division"`
	Address        string `gorm:"size:500" json:"address"`
	UrbanRuralCode string `gorm:"size:10" json:"urban_rural_code"`

	NumEdifices         *int     `json:"num_edifices"`
	EdificeValue        *float64 `json:"edifice_value"`
	EdificeDebt         *float64 `json:"edifice_debt"`
	HasPastorsResidence *bool    `json:"has_pastors_residence"`
	ResidenceValue      *float64 `json:"residence_value"`
	ResidenceDebt       *float64 `json:"residence_debt"`
	Expenses            *float64 `json:"expenses"`
	Benevolences        *float64 `json:"benevolences"`
	TotalExpenditures   *float64 `json:"total_expenditures"`

	RawValues datatypes.JSON `gorm:"type:jsonb" json:"raw_values,omitempty"`

	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	GeocodeStatus string   `gorm:"size:20" json:"geocode_status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReligiousBody) TableName() string {
	return "religious_bodies"
}

// Membership holds the member counts for a schedule. TotalMembersBySex is the
// figure recorded on the form and takes precedence over summing components.
type Membership struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	CensusScheduleID uint `gorm:"unique;not null" json:"census_schedule_id"`

	TotalMembersBySex *int `json:"total_members_by_sex"`
	MaleMembers       *int `json:"male_members"`
	FemaleMembers     *int `json:"female_members"`
	MembersUnder13    *int `json:"members_under_13"`
	Members13AndOlder *int `json:"members_13_and_older"`

	SundaySchools        *int `json:"sunday_schools"`
	SundaySchoolOfficers *int `json:"sunday_school_officers"`
	SundaySchoolScholars *int `json:"sunday_school_scholars"`
	VacationSchools      *int `json:"vacation_schools"`
	VacationSchoolStaff  *int `json:"vacation_school_staff"`
	WeekdaySchools       *int `json:"weekday_schools"`
	WeekdaySchoolStaff   *int `json:"weekday_school_staff"`
	ParochialSchools     *int `json:"parochial_schools"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}

// TotalMembers applies the precedence rule used by the map API: the recorded
// total wins, then male+female, then zero.
func (m *Membership) TotalMembers() int {
	if m == nil {
		return 0
	}
	if m.TotalMembersBySex != nil {
		return *m.TotalMembersBySex
	}
	if m.MaleMembers != nil || m.FemaleMembers != nil {
		total := 0
		if m.MaleMembers != nil {
			total += *m.MaleMembers
		}
		if m.FemaleMembers != nil {
			total += *m.FemaleMembers
		}
		return total
	}
	return 0
}

// Clergy is a pastor or assistant named on a schedule. A schedule holds at
// most one row per IsAssistant value.
type Clergy struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	CensusScheduleID uint `gorm:"not null;index:idx_clergy_schedule_role,unique" json:"census_schedule_id"`
	IsAssistant      bool `gorm:"index:idx_clergy_schedule_role,unique" json:"is_assistant"`

	Name                   string `gorm:"size:255" json:"name"`
	College                string `gorm:"size:255" json:"college"`
	TheologicalSeminary    string `gorm:"size:255" json:"theological_seminary"`
	NumOtherChurchesServed *int   `json:"num_other_churches_served"`
	ServingCongregation    *bool  `json:"serving_congregation"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Clergy) TableName() string {
	return "clergy"
}
