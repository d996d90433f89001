package denomination

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindByDenominationID(denominationID string) (*Denomination, error)
	List(familyCensus, familyArda, search string) ([]Denomination, error)
	ListFamilies() ([]string, []string, error)
	ListGroupedByFamily() (map[string][]Denomination, error)
	Upsert(d *Denomination) error
	DeleteAll() error
	Count() (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) FindByDenominationID(denominationID string) (*Denomination, error) {
	var d Denomination
	err := r.db.Where("denomination_id = ?", denominationID).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(familyCensus, familyArda, search string) ([]Denomination, error) {
	query := r.db.Model(&Denomination{})

	if familyCensus != "" {
		query = query.Where("family_census = ?", familyCensus)
	}
	if familyArda != "" {
		query = query.Where("family_arda = ?", familyArda)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var denominations []Denomination
	err := query.Order("name ASC").Find(&denominations).Error
	return denominations, err
}

// ListFamilies returns the distinct census and ARDA family names.
func (r *repository) ListFamilies() ([]string, []string, error) {
	var census, arda []string

	err := r.db.Model(&Denomination{}).
		Where("family_census <> ''").
		Distinct("family_census").
		Order("family_census ASC").
		Pluck("family_census", &census).Error
	if err != nil {
		return nil, nil, err
	}

	err = r.db.Model(&Denomination{}).
		Where("family_arda <> ''").
		Distinct("family_arda").
		Order("family_arda ASC").
		Pluck("family_arda", &arda).Error
	if err != nil {
		return nil, nil, err
	}

	return census, arda, nil
}

func (r *repository) ListGroupedByFamily() (map[string][]Denomination, error) {
	var denominations []Denomination
	if err := r.db.Order("family_census ASC, name ASC").Find(&denominations).Error; err != nil {
		return nil, err
	}

	grouped := make(map[string][]Denomination)
	for _, d := range denominations {
		family := d.FamilyCensus
		if family == "" {
			family = "Unclassified"
		}
		grouped[family] = append(grouped[family], d)
	}
	return grouped, nil
}

// Upsert inserts or updates by the external denomination_id.
func (r *repository) Upsert(d *Denomination) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "denomination_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "short_name", "family_census", "family_relec", "family_arda", "updated_at"}),
	}).Create(d).Error
}

func (r *repository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Denomination{}).Error
}

func (r *repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Denomination{}).Count(&count).Error
	return count, err
}
