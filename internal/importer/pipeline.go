package importer

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"github.com/chnm/relcensus-backend/internal/census"
)

// Row is one record of the transcription export, keyed by lowercased header.
type Row map[string]string

func (r Row) get(col string) string {
	return strings.TrimSpace(r[col])
}

// flag returns the raw legacy flag value, or nil when the column was blank.
func (r Row) flag(col string) *string {
	v := r.get(col)
	if v == "" {
		return nil
	}
	return &v
}

// Summary counts the outcome of one pipeline run.
type Summary struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// Pipeline upserts transcription rows into the schedule tables. Each row is
// processed in its own transaction: a bad row rolls back alone and the batch
// continues.
type Pipeline struct {
	store       Store
	errlog      *ErrorLog
	resetStatus bool

	summary Summary
}

// NewPipeline builds a pipeline. When resetStatus is set, the workflow status
// of existing schedules is recomputed from the legacy flags; otherwise a
// re-import never touches the status a schedule already has.
func NewPipeline(store Store, errlog *ErrorLog, resetStatus bool) *Pipeline {
	return &Pipeline{store: store, errlog: errlog, resetStatus: resetStatus}
}

// Summary returns the counts so far.
func (p *Pipeline) Summary() Summary {
	return p.summary
}

// ProcessRow imports one row. Row failures are logged and counted, never
// returned: only a missing resource id is reported to the caller as a logged
// failure too, so the batch loop stays a plain range.
func (p *Pipeline) ProcessRow(row Row) {
	resourceID := NormalizeText(row.get("resource_id"))
	if resourceID == "" {
		p.summary.Failed++
		p.errlog.RowError("(blank)", fmt.Errorf("row has no resource_id"))
		return
	}

	created := false
	err := p.store.Transaction(func(tx Store) error {
		var txErr error
		created, txErr = p.upsertRow(tx, resourceID, row)
		return txErr
	})
	if err != nil {
		p.summary.Failed++
		p.errlog.RowError(resourceID, err)
		return
	}

	if created {
		p.summary.Created++
	} else {
		p.summary.Updated++
	}
}

func (p *Pipeline) upsertRow(tx Store, resourceID string, row Row) (created bool, err error) {
	schedule, err := tx.FindScheduleByResourceID(resourceID)
	if err == ErrNotFound {
		schedule = &census.CensusSchedule{
			ResourceID:          resourceID,
			TranscriptionStatus: census.StatusUnassigned,
		}
		created = true
	} else if err != nil {
		return false, err
	}

	schedule.ScheduleTitle = NormalizeText(row.get("schedule_title"))
	schedule.ScheduleID = NormalizeText(row.get("schedule_id"))
	schedule.BoxNumber = NormalizeText(row.get("box_number"))
	schedule.Notes = NormalizeText(row.get("notes"))
	schedule.DatascribeOmekaItemID = NormalizeText(row.get("omeka_item_id"))
	schedule.DatascribeItemID = NormalizeText(row.get("datascribe_item_id"))
	schedule.DatascribeRecordID = NormalizeText(row.get("datascribe_record_id"))

	if created || p.resetStatus {
		schedule.TranscriptionStatus = MapLegacyStatus(row.flag("reviewed"), row.flag("is_approved"))
	}

	if err := tx.SaveSchedule(schedule); err != nil {
		return created, fmt.Errorf("saving schedule: %w", err)
	}

	// Values from any child table that fail numeric coercion land here
	// verbatim. The body is upserted last so its RawValues column carries
	// the whole row's garbage.
	garbage := map[string]string{}

	if err := p.upsertMembership(tx, schedule, row, garbage); err != nil {
		return created, err
	}
	if err := p.upsertClergy(tx, schedule, row, garbage); err != nil {
		return created, err
	}
	if err := p.upsertBody(tx, schedule, row, garbage); err != nil {
		return created, err
	}

	return created, nil
}

// intField coerces a count column. Non-sentinel values that do not coerce are
// captured in garbage, never dropped.
func intField(row Row, col string, garbage map[string]string) *int {
	v := NormalizeNumeric(row.get(col))
	if n := v.AsInt(); n != nil {
		return n
	}
	if !v.IsNil() {
		garbage[col] = row.get(col)
	}
	return nil
}

// floatField coerces a dollar column the same way.
func floatField(row Row, col string, garbage map[string]string) *float64 {
	v := NormalizeNumeric(row.get(col))
	if f := v.AsFloat(); f != nil {
		return f
	}
	if v.Raw != "" {
		garbage[col] = v.Raw
	}
	return nil
}

func (p *Pipeline) upsertBody(tx Store, schedule *census.CensusSchedule, row Row, garbage map[string]string) error {
	body, err := tx.FindBodyBySchedule(schedule.ID)
	if err == ErrNotFound {
		body = &census.ReligiousBody{CensusScheduleID: schedule.ID}
	} else if err != nil {
		return err
	}

	intOf := func(col string) *int { return intField(row, col, garbage) }
	floatOf := func(col string) *float64 { return floatField(row, col, garbage) }

	body.Name = NormalizeText(row.get("name"))
	body.CensusCode = NormalizeText(row.get("census_code"))
	body.Division = NormalizeText(row.get("division"))
	body.Address = NormalizeText(row.get("address"))
	body.UrbanRuralCode = NormalizeText(row.get("urban_rural_code"))

	body.NumEdifices = intOf("num_edifices")
	body.EdificeValue = floatOf("edifice_value")
	body.EdificeDebt = floatOf("edifice_debt")
	body.HasPastorsResidence = NormalizeBool(row.get("has_pastors_residence"))
	body.ResidenceValue = floatOf("residence_value")
	body.ResidenceDebt = floatOf("residence_debt")
	body.Expenses = floatOf("expenses")
	body.Benevolences = floatOf("benevolences")
	body.TotalExpenditures = floatOf("total_expenditures")

	// Denomination and location are shared reference data. A miss is a
	// warning, never a row failure, and nothing is fabricated.
	if denominationID := NormalizeText(row.get("denomination_id")); denominationID != "" {
		d, err := tx.FindDenomination(denominationID)
		if err == ErrNotFound {
			log.Printf("⚠️ Unknown denomination_id %q on %s", denominationID, schedule.ResourceID)
			p.summary.Warnings++
		} else if err != nil {
			return err
		} else {
			body.DenominationID = &d.ID
		}
	}

	if placeID := NormalizeText(row.get("place_id")); placeID != "" && !isNoLocation(placeID) {
		loc, err := tx.FindLocation(placeID)
		if err == ErrNotFound {
			log.Printf("⚠️ Unknown place_id %q on %s", placeID, schedule.ResourceID)
			p.summary.Warnings++
		} else if err != nil {
			return err
		} else {
			body.LocationID = &loc.ID
		}
	}

	if len(garbage) > 0 {
		data, err := json.Marshal(garbage)
		if err != nil {
			return fmt.Errorf("marshaling raw values: %w", err)
		}
		body.RawValues = datatypes.JSON(data)
	} else {
		body.RawValues = nil
	}

	if err := tx.SaveBody(body); err != nil {
		return fmt.Errorf("saving religious body: %w", err)
	}
	return nil
}

// isNoLocation recognizes the transcription convention for schedules whose
// place could not be identified. These are not lookup misses.
func isNoLocation(placeID string) bool {
	return strings.EqualFold(placeID, "no location")
}

func (p *Pipeline) upsertMembership(tx Store, schedule *census.CensusSchedule, row Row, garbage map[string]string) error {
	m, err := tx.FindMembershipBySchedule(schedule.ID)
	if err == ErrNotFound {
		m = &census.Membership{CensusScheduleID: schedule.ID}
	} else if err != nil {
		return err
	}

	intOf := func(col string) *int { return intField(row, col, garbage) }

	m.TotalMembersBySex = intOf("total_members_by_sex")
	m.MaleMembers = intOf("male_members")
	m.FemaleMembers = intOf("female_members")
	m.MembersUnder13 = intOf("members_under_13")
	m.Members13AndOlder = intOf("members_13_and_older")

	m.SundaySchools = intOf("sunday_schools")
	m.SundaySchoolOfficers = intOf("sunday_school_officers")
	m.SundaySchoolScholars = intOf("sunday_school_scholars")
	m.VacationSchools = intOf("vacation_schools")
	m.VacationSchoolStaff = intOf("vacation_school_staff")
	m.WeekdaySchools = intOf("weekday_schools")
	m.WeekdaySchoolStaff = intOf("weekday_school_staff")
	m.ParochialSchools = intOf("parochial_schools")

	if err := tx.SaveMembership(m); err != nil {
		return fmt.Errorf("saving membership: %w", err)
	}
	return nil
}

func (p *Pipeline) upsertClergy(tx Store, schedule *census.CensusSchedule, row Row, garbage map[string]string) error {
	// Pastor row only when the form names a real person.
	if name := NormalizeText(row.get("pastor_name")); name != "" {
		c, err := tx.FindClergy(schedule.ID, false)
		if err == ErrNotFound {
			c = &census.Clergy{CensusScheduleID: schedule.ID, IsAssistant: false}
		} else if err != nil {
			return err
		}

		c.Name = name
		c.College = NormalizeText(row.get("pastor_college"))
		c.TheologicalSeminary = NormalizeText(row.get("pastor_theological_seminary"))
		c.NumOtherChurchesServed = intField(row, "pastor_num_other_churches", garbage)
		c.ServingCongregation = NormalizeBool(row.get("pastor_serving_congregation"))

		if err := tx.SaveClergy(c); err != nil {
			return fmt.Errorf("saving pastor: %w", err)
		}
	}

	// Assistant row only when the form reports assistants and names one.
	assistantCount := intField(row, "assistant_count", garbage)
	assistantName := NormalizeText(row.get("assistant_name"))
	if assistantCount != nil && *assistantCount > 0 && assistantName != "" {
		c, err := tx.FindClergy(schedule.ID, true)
		if err == ErrNotFound {
			c = &census.Clergy{CensusScheduleID: schedule.ID, IsAssistant: true}
		} else if err != nil {
			return err
		}

		c.Name = assistantName
		c.College = NormalizeText(row.get("assistant_college"))
		c.TheologicalSeminary = NormalizeText(row.get("assistant_theological_seminary"))
		c.NumOtherChurchesServed = intField(row, "assistant_num_other_churches", garbage)

		if err := tx.SaveClergy(c); err != nil {
			return fmt.Errorf("saving assistant: %w", err)
		}
	}

	return nil
}
