package location

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type Service interface {
	List(state, county, search string, page, pageSize int) ([]Location, int64, error)
	States() ([]string, error)
	ImportCSV(path string) (*ImportSummary, error)
	SyncFromAPI(apiURL string) (*ImportSummary, error)
}

type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo}
}

func (s *service) List(state, county, search string, page, pageSize int) ([]Location, int64, error) {
	return s.repo.List(state, county, search, page, pageSize)
}

func (s *service) States() ([]string, error) {
	return s.repo.ListStates()
}

// ImportCSV loads locations from a CSV with header
// place_id,state,city,county,map_name,county_ahcb,lat,lon.
func (s *service) ImportCSV(path string) (*ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["place_id"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column place_id")
	}

	summary := &ImportSummary{}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("⚠️ Skipping malformed CSV row: %v", err)
			summary.Errors++
			continue
		}

		lat, _ := strconv.ParseFloat(field(row, "lat"), 64)
		lon, _ := strconv.ParseFloat(field(row, "lon"), 64)

		loc := Location{
			PlaceID:    field(row, "place_id"),
			State:      NormalizeState(field(row, "state")),
			City:       field(row, "city"),
			County:     field(row, "county"),
			MapName:    field(row, "map_name"),
			CountyAHCB: field(row, "county_ahcb"),
			Lat:        lat,
			Lon:        lon,
		}

		s.save(&loc, summary)
	}

	log.Printf("✅ Location import finished: %d created, %d updated, %d skipped, %d errors",
		summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

type apiLocation struct {
	PlaceID    json.Number `json:"place_id"`
	State      string      `json:"state"`
	City       string      `json:"city"`
	County     string      `json:"county"`
	MapName    string      `json:"map_name"`
	CountyAHCB string      `json:"county_ahcb"`
	Lat        float64     `json:"lat"`
	Lon        float64     `json:"lon"`
}

// SyncFromAPI pulls the full place list from the remote JSON API. A connection
// failure aborts the sync; per-record problems do not.
func (s *service) SyncFromAPI(apiURL string) (*ImportSummary, error) {
	client := &http.Client{Timeout: 120 * time.Second}

	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach locations API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locations API returned status %d", resp.StatusCode)
	}

	var records []apiLocation
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode locations API response: %w", err)
	}

	log.Printf("🔄 Syncing %d locations from %s", len(records), apiURL)

	summary := &ImportSummary{}
	for _, rec := range records {
		loc := Location{
			PlaceID:    rec.PlaceID.String(),
			State:      NormalizeState(rec.State),
			City:       strings.TrimSpace(rec.City),
			County:     strings.TrimSpace(rec.County),
			MapName:    strings.TrimSpace(rec.MapName),
			CountyAHCB: strings.TrimSpace(rec.CountyAHCB),
			Lat:        rec.Lat,
			Lon:        rec.Lon,
		}

		s.save(&loc, summary)
	}

	log.Printf("✅ Location sync finished: %d created, %d updated, %d skipped, %d errors",
		summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

func (s *service) save(loc *Location, summary *ImportSummary) {
	if err := validate(loc); err != nil {
		log.Printf("⚠️ Skipping location %q: %v", loc.PlaceID, err)
		summary.Skipped++
		return
	}

	existing, findErr := s.repo.FindByPlaceID(loc.PlaceID)
	if err := s.repo.Upsert(loc); err != nil {
		log.Printf("❌ Failed to save location %s: %v", loc.PlaceID, err)
		summary.Errors++
		return
	}
	if findErr == nil && existing != nil {
		summary.Updated++
	} else {
		summary.Created++
	}
}

// validate enforces the field limits of the locations table.
func validate(loc *Location) error {
	if loc.PlaceID == "" {
		return fmt.Errorf("missing place_id")
	}
	if len(loc.PlaceID) > 50 {
		return fmt.Errorf("place_id longer than 50 characters")
	}
	if len(loc.State) > 2 {
		return fmt.Errorf("state %q is not a two-letter code", loc.State)
	}
	for field, value := range map[string]string{
		"city":        loc.City,
		"county":      loc.County,
		"map_name":    loc.MapName,
		"county_ahcb": loc.CountyAHCB,
	} {
		if len(value) > 250 {
			return fmt.Errorf("%s longer than 250 characters", field)
		}
	}
	return nil
}
