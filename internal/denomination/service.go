package denomination

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type Service interface {
	List(familyCensus, familyArda, search string) ([]Denomination, error)
	Families() ([]string, []string, error)
	GroupedByFamily() (map[string][]Denomination, error)
	ImportCSV(path string, batchSize int, clearExisting bool) (*ImportSummary, error)
	SyncFromAPI(apiURL string) (*ImportSummary, error)
}

// ImportSummary counts the outcome of a bulk load.
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

func (s *service) List(familyCensus, familyArda, search string) ([]Denomination, error) {
	return s.repo.List(familyCensus, familyArda, search)
}

func (s *service) Families() ([]string, []string, error) {
	return s.repo.ListFamilies()
}

func (s *service) GroupedByFamily() (map[string][]Denomination, error) {
	return s.repo.ListGroupedByFamily()
}

// ImportCSV loads denominations from a CSV with header
// denomination_id,name,short_name,family_census,family_relec,family_arda.
// Bad rows are counted and logged, never fatal.
func (s *service) ImportCSV(path string, batchSize int, clearExisting bool) (*ImportSummary, error) {
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
	if _, ok := col["denomination_id"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column denomination_id")
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column name")
	}

	if clearExisting {
		if err := s.repo.DeleteAll(); err != nil {
			return nil, fmt.Errorf("failed to clear denominations: %w", err)
		}
		log.Println("🔄 Cleared existing denominations")
	}

	if batchSize < 1 {
		batchSize = 100
	}

	summary := &ImportSummary{}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	processed := 0
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

		d := Denomination{
			DenominationID: field(row, "denomination_id"),
			Name:           field(row, "name"),
			ShortName:      field(row, "short_name"),
			FamilyCensus:   field(row, "family_census"),
			FamilyRelec:    field(row, "family_relec"),
			FamilyArda:     field(row, "family_arda"),
		}

		if err := validate(&d); err != nil {
			log.Printf("⚠️ Skipping denomination %q: %v", d.DenominationID, err)
			summary.Skipped++
			continue
		}

		existing, findErr := s.repo.FindByDenominationID(d.DenominationID)
		if err := s.repo.Upsert(&d); err != nil {
			log.Printf("❌ Failed to save denomination %s: %v", d.DenominationID, err)
			summary.Errors++
			continue
		}
		if findErr == nil && existing != nil {
			summary.Updated++
		} else {
			summary.Created++
		}

		processed++
		if processed%batchSize == 0 {
			log.Printf("🔄 Imported %d denominations...", processed)
		}
	}

	log.Printf("✅ Denomination import finished: %d created, %d updated, %d skipped, %d errors",
		summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

type apiDenomination struct {
	DenominationID string `json:"denomination_id"`
	Name           string `json:"name"`
	ShortName      string `json:"short_name"`
	FamilyCensus   string `json:"family_census"`
	FamilyRelec    string `json:"family_relec"`
	FamilyArda     string `json:"family_arda"`
}

// SyncFromAPI pulls the full denomination list from the remote JSON API.
// A connection failure aborts the sync; per-record problems do not.
func (s *service) SyncFromAPI(apiURL string) (*ImportSummary, error) {
	client := &http.Client{Timeout: 60 * time.Second}

	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach denominations API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("denominations API returned status %d", resp.StatusCode)
	}

	var records []apiDenomination
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode denominations API response: %w", err)
	}

	log.Printf("🔄 Syncing %d denominations from %s", len(records), apiURL)

	summary := &ImportSummary{}
	for _, rec := range records {
		d := Denomination{
			DenominationID: strings.TrimSpace(rec.DenominationID),
			Name:           strings.TrimSpace(rec.Name),
			ShortName:      strings.TrimSpace(rec.ShortName),
			FamilyCensus:   strings.TrimSpace(rec.FamilyCensus),
			FamilyRelec:    strings.TrimSpace(rec.FamilyRelec),
			FamilyArda:     strings.TrimSpace(rec.FamilyArda),
		}

		if err := validate(&d); err != nil {
			log.Printf("⚠️ Skipping denomination %q: %v", d.DenominationID, err)
			summary.Skipped++
			continue
		}

		existing, findErr := s.repo.FindByDenominationID(d.DenominationID)
		if err := s.repo.Upsert(&d); err != nil {
			log.Printf("❌ Failed to save denomination %s: %v", d.DenominationID, err)
			summary.Errors++
			continue
		}
		if findErr == nil && existing != nil {
			summary.Updated++
		} else {
			summary.Created++
		}
	}

	log.Printf("✅ Denomination sync finished: %d created, %d updated, %d skipped, %d errors",
		summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

// validate enforces the field limits of the denominations table.
func validate(d *Denomination) error {
	if d.DenominationID == "" {
		return fmt.Errorf("missing denomination_id")
	}
	if len(d.DenominationID) > 50 {
		return fmt.Errorf("denomination_id longer than 50 characters")
	}
	if d.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(d.Name) > 255 {
		return fmt.Errorf("name longer than 255 characters")
	}
	for field, value := range map[string]string{
		"short_name":    d.ShortName,
		"family_census": d.FamilyCensus,
		"family_relec":  d.FamilyRelec,
		"family_arda":   d.FamilyArda,
	} {
		if len(value) > 255 {
			return fmt.Errorf("%s longer than 255 characters", field)
		}
	}
	return nil
}
