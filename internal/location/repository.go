package location

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindByPlaceID(placeID string) (*Location, error)
	List(state, county, search string, page, pageSize int) ([]Location, int64, error)
	ListStates() ([]string, error)
	Upsert(loc *Location) error
	Count() (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) FindByPlaceID(placeID string) (*Location, error) {
	var loc Location
	err := r.db.Where("place_id = ?", placeID).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *repository) List(state, county, search string, page, pageSize int) ([]Location, int64, error) {
	query := r.db.Model(&Location{})

	if state != "" {
		query = query.Where("state = ?", NormalizeState(state))
	}
	if county != "" {
		query = query.Where("county ILIKE ?", "%"+county+"%")
	}
	if search != "" {
		query = query.Where("city ILIKE ? OR map_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	var locations []Location
	err := query.
		Order("state ASC, city ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&locations).Error

	return locations, total, err
}

func (r *repository) ListStates() ([]string, error) {
	var states []string
	err := r.db.Model(&Location{}).
		Where("state <> ''").
		Distinct("state").
		Order("state ASC").
		Pluck("state", &states).Error
	return states, err
}

func (r *repository) Upsert(loc *Location) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "city", "county", "map_name", "county_ahcb", "lat", "lon", "updated_at"}),
	}).Create(loc).Error
}

func (r *repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Location{}).Count(&count).Error
	return count, err
}
