package location

import "time"

// Location is shared reference data for places named on census schedules,
// synced from the locations API. The import pipeline looks these up and
// never creates them.
type Location struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	PlaceID    string  `gorm:"size:50;unique;not null" json:"place_id"`
	State      string  `gorm:"size:2;index" json:"state"`
	City       string  `gorm:"size:250;index" json:"city"`
	County     string  `gorm:"size:250" json:"county"`
	MapName    string  `gorm:"size:250" json:"map_name"`
	CountyAHCB string  `gorm:"size:250" json:"county_ahcb"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}
