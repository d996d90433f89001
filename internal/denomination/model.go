package denomination

import "time"

// Denomination is shared reference data synced from the denominations API or
// imported from CSV. The import pipeline looks these up and never creates them.
type Denomination struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	DenominationID string `gorm:"size:50;unique;not null" json:"denomination_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	ShortName      string `gorm:"size:255" json:"short_name"`
	FamilyCensus   string `gorm:"size:255;index" json:"family_census"`
	FamilyRelec    string `gorm:"size:255" json:"family_relec"`
	FamilyArda     string `gorm:"size:255;index" json:"family_arda"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Denomination) TableName() string {
	return "denominations"
}
