package census

import (
	"gorm.io/gorm"
)

// ScheduleFilter narrows the schedule browser listing.
type ScheduleFilter struct {
	Search       string
	Denomination string
	Family       string
	State        string
	Status       string
	HasImage     *bool
	Page         int
	PageSize     int
}

// MapFilter narrows the map marker query. Bounds are south, west, north, east.
type MapFilter struct {
	FamilyCensus string
	Denomination string
	Bounds       *[4]float64
}

// MapMarker is one point on the public map.
type MapMarker struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	Family           string  `json:"family"`
	DenominationName string  `json:"denomination_name"`
	TotalMembers     int     `json:"total_members"`
}

type Repository interface {
	FindByResourceID(resourceID string) (*CensusSchedule, error)
	FindByID(id uint) (*CensusSchedule, error)
	List(filter ScheduleFilter) ([]CensusSchedule, int64, error)
	Save(schedule *CensusSchedule) error
	HasChildRows(scheduleID uint) (bool, error)

	FindBodyBySchedule(scheduleID uint) (*ReligiousBody, error)
	SaveBody(body *ReligiousBody) error
	FindMembershipBySchedule(scheduleID uint) (*Membership, error)
	SaveMembership(m *Membership) error
	FindClergy(scheduleID uint, isAssistant bool) (*Clergy, error)
	SaveClergy(c *Clergy) error

	ListBodies(familyCensus, denominationID, search string, page, pageSize int) ([]ReligiousBody, int64, error)
	FindBodyByID(id uint) (*ReligiousBody, error)
	MapData(filter MapFilter) ([]MapMarker, error)

	BodiesNeedingGeocode(limit int) ([]ReligiousBody, error)
	SchedulesNeedingImages(limit int, startFrom string, force bool) ([]CensusSchedule, error)

	DB() *gorm.DB
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// DB exposes the handle so the import pipeline can wrap a row in one transaction.
func (r *repository) DB() *gorm.DB {
	return r.db
}

func (r *repository) FindByResourceID(resourceID string) (*CensusSchedule, error) {
	var schedule CensusSchedule
	err := r.db.
		Preload("ReligiousBody").
		Preload("ReligiousBody.Denomination").
		Preload("ReligiousBody.Location").
		Preload("Membership").
		Preload("Clergy").
		Preload("AssignedTranscriber").
		Preload("AssignedReviewer").
		Where("resource_id = ?", resourceID).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) FindByID(id uint) (*CensusSchedule, error) {
	var schedule CensusSchedule
	err := r.db.
		Preload("ReligiousBody").
		Preload("Membership").
		Preload("Clergy").
		Preload("AssignedTranscriber").
		Preload("AssignedReviewer").
		First(&schedule, id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) List(filter ScheduleFilter) ([]CensusSchedule, int64, error) {
	query := r.db.Model(&CensusSchedule{}).
		Joins("LEFT JOIN religious_bodies rb ON rb.census_schedule_id = census_schedules.id").
		Joins("LEFT JOIN denominations d ON d.id = rb.denomination_id").
		Joins("LEFT JOIN locations l ON l.id = rb.location_id")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"census_schedules.resource_id ILIKE ? OR census_schedules.schedule_title ILIKE ? OR rb.name ILIKE ?",
			like, like, like,
		)
	}
	if filter.Denomination != "" {
		query = query.Where("d.denomination_id = ?", filter.Denomination)
	}
	if filter.Family != "" {
		query = query.Where("d.family_census = ?", filter.Family)
	}
	if filter.State != "" {
		query = query.Where("l.state = ?", filter.State)
	}
	if filter.Status != "" {
		query = query.Where("census_schedules.transcription_status = ?", filter.Status)
	}
	if filter.HasImage != nil {
		if *filter.HasImage {
			query = query.Where("census_schedules.original_image_path <> ''")
		} else {
			query = query.Where("census_schedules.original_image_path = ''")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 25
	}

	var schedules []CensusSchedule
	err := query.
		Preload("ReligiousBody").
		Preload("ReligiousBody.Denomination").
		Preload("ReligiousBody.Location").
		Preload("AssignedTranscriber").
		Order("census_schedules.resource_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&schedules).Error

	return schedules, total, err
}

func (r *repository) Save(schedule *CensusSchedule) error {
	return r.db.Save(schedule).Error
}

// HasChildRows reports whether any transcribed data exists for the schedule.
func (r *repository) HasChildRows(scheduleID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&ReligiousBody{}).Where("census_schedule_id = ?", scheduleID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&Membership{}).Where("census_schedule_id = ?", scheduleID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&Clergy{}).Where("census_schedule_id = ?", scheduleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindBodyBySchedule(scheduleID uint) (*ReligiousBody, error) {
	var body ReligiousBody
	err := r.db.Where("census_schedule_id = ?", scheduleID).First(&body).Error
	if err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *repository) SaveBody(body *ReligiousBody) error {
	return r.db.Save(body).Error
}

func (r *repository) FindMembershipBySchedule(scheduleID uint) (*Membership, error) {
	var m Membership
	err := r.db.Where("census_schedule_id = ?", scheduleID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) SaveMembership(m *Membership) error {
	return r.db.Save(m).Error
}

func (r *repository) FindClergy(scheduleID uint, isAssistant bool) (*Clergy, error) {
	var c Clergy
	err := r.db.Where("census_schedule_id = ? AND is_assistant = ?", scheduleID, isAssistant).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) SaveClergy(c *Clergy) error {
	return r.db.Save(c).Error
}

func (r *repository) ListBodies(familyCensus, denominationID, search string, page, pageSize int) ([]ReligiousBody, int64, error) {
	query := r.db.Model(&ReligiousBody{}).
		Joins("LEFT JOIN denominations d ON d.id = religious_bodies.denomination_id")

	if familyCensus != "" {
		query = query.Where("d.family_census = ?", familyCensus)
	}
	if denominationID != "" {
		query = query.Where("d.denomination_id = ?", denominationID)
	}
	if search != "" {
		query = query.Where("religious_bodies.name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 25
	}

	var bodies []ReligiousBody
	err := query.
		Preload("Denomination").
		Preload("Location").
		Order("religious_bodies.name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bodies).Error

	return bodies, total, err
}

func (r *repository) FindBodyByID(id uint) (*ReligiousBody, error) {
	var body ReligiousBody
	err := r.db.
		Preload("Denomination").
		Preload("Location").
		First(&body, id).Error
	if err != nil {
		return nil, err
	}
	return &body, nil
}

// maxMapMarkers caps the marker payload for the public map.
const maxMapMarkers = 2000

// MapData returns markers for bodies with coordinates, capped at maxMapMarkers.
func (r *repository) MapData(filter MapFilter) ([]MapMarker, error) {
	query := r.db.Model(&ReligiousBody{}).
		Select(`religious_bodies.id,
			religious_bodies.name,
			religious_bodies.latitude AS lat,
			religious_bodies.longitude AS lon,
			d.family_census AS family,
			d.name AS denomination_name,
			COALESCE(m.total_members_by_sex, COALESCE(m.male_members, 0) + COALESCE(m.female_members, 0), 0) AS total_members`).
		Joins("LEFT JOIN denominations d ON d.id = religious_bodies.denomination_id").
		Joins("LEFT JOIN memberships m ON m.census_schedule_id = religious_bodies.census_schedule_id").
		Where("religious_bodies.latitude IS NOT NULL AND religious_bodies.longitude IS NOT NULL")

	if filter.FamilyCensus != "" {
		query = query.Where("d.family_census = ?", filter.FamilyCensus)
	}
	if filter.Denomination != "" {
		query = query.Where("d.denomination_id = ?", filter.Denomination)
	}
	if filter.Bounds != nil {
		b := filter.Bounds
		query = query.Where(
			"religious_bodies.latitude BETWEEN ? AND ? AND religious_bodies.longitude BETWEEN ? AND ?",
			b[0], b[2], b[1], b[3],
		)
	}

	var markers []MapMarker
	err := query.Limit(maxMapMarkers).Scan(&markers).Error
	return markers, err
}

// BodiesNeedingGeocode returns bodies that have an address but no coordinates
// and have not already failed or been skipped.
func (r *repository) BodiesNeedingGeocode(limit int) ([]ReligiousBody, error) {
	query := r.db.
		Preload("Location").
		Where("address <> ''").
		Where("latitude IS NULL").
		Where("geocode_status NOT IN ?", []string{"failed", "skipped"})

	if limit > 0 {
		query = query.Limit(limit)
	}

	var bodies []ReligiousBody
	err := query.Find(&bodies).Error
	return bodies, err
}

// SchedulesNeedingImages returns schedules with a source item id and, unless
// force is set, no stored image yet.
func (r *repository) SchedulesNeedingImages(limit int, startFrom string, force bool) ([]CensusSchedule, error) {
	query := r.db.
		Where("datascribe_omeka_item_id <> ''").
		Order("resource_id ASC")

	if !force {
		query = query.Where("original_image_path = ''")
	}
	if startFrom != "" {
		query = query.Where("resource_id >= ?", startFrom)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var schedules []CensusSchedule
	err := query.Find(&schedules).Error
	return schedules, err
}
