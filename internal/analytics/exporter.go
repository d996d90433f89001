package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders query results in one download format.
type Exporter interface {
	Export(rows []QueryRow) (data []byte, contentType string, filename string, err error)
}

// NewExporter returns the exporter for a format name, or nil for an unknown
// format.
func NewExporter(format, adminSiteURL string) Exporter {
	switch format {
	case "csv":
		return &csvExporter{adminSiteURL: adminSiteURL}
	case "json":
		return &jsonExporter{}
	case "excel":
		return &excelExporter{adminSiteURL: adminSiteURL}
	case "pdf":
		return &pdfExporter{}
	}
	return nil
}

// exportColumns is the fixed column order shared by the tabular formats.
var exportColumns = []string{
	"Schedule ID", "Religious Body Name", "Denomination", "State", "County",
	"City", "Address", "Num Edifices", "Edifice Value", "Transcription Status",
	"Admin Link",
}

func adminLink(baseURL, scheduleID string) string {
	if baseURL == "" {
		return ""
	}
	return baseURL + "/schedules/" + scheduleID
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func exportFilename(ext string) string {
	return fmt.Sprintf("census_query_%s.%s", time.Now().Format("20060102_150405"), ext)
}

type csvExporter struct {
	adminSiteURL string
}

func (e *csvExporter) Export(rows []QueryRow) ([]byte, string, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, "", "", err
	}
	for _, row := range rows {
		record := []string{
			row.ScheduleID,
			row.ReligiousBodyName,
			row.Denomination,
			row.State,
			row.County,
			row.City,
			row.Address,
			intCell(row.NumEdifices),
			floatCell(row.EdificeValue),
			row.Status,
			adminLink(e.adminSiteURL, row.ScheduleID),
		}
		if err := w.Write(record); err != nil {
			return nil, "", "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), "text/csv", exportFilename("csv"), nil
}

type jsonExporter struct{}

// jsonRecord nests the location fields the way the public data releases do.
type jsonRecord struct {
	ScheduleID        string `json:"schedule_id"`
	ReligiousBodyName string `json:"religious_body_name"`
	Denomination      string `json:"denomination"`
	Location          struct {
		State  string `json:"state"`
		County string `json:"county"`
		City   string `json:"city"`
	} `json:"location"`
	Address      string   `json:"address"`
	NumEdifices  *int     `json:"num_edifices"`
	EdificeValue *float64 `json:"edifice_value"`
	Status       string   `json:"transcription_status"`
}

func (e *jsonExporter) Export(rows []QueryRow) ([]byte, string, string, error) {
	records := make([]jsonRecord, 0, len(rows))
	for _, row := range rows {
		rec := jsonRecord{
			ScheduleID:        row.ScheduleID,
			ReligiousBodyName: row.ReligiousBodyName,
			Denomination:      row.Denomination,
			Address:           row.Address,
			NumEdifices:       row.NumEdifices,
			EdificeValue:      row.EdificeValue,
			Status:            row.Status,
		}
		rec.Location.State = row.State
		rec.Location.County = row.County
		rec.Location.City = row.City
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, "", "", err
	}

	return data, "application/json", exportFilename("json"), nil
}

type excelExporter struct {
	adminSiteURL string
}

func (e *excelExporter) Export(rows []QueryRow) ([]byte, string, string, error) {
	f := excelize.NewFile()
	sheet := "Query Results"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.ScheduleID,
			row.ReligiousBodyName,
			row.Denomination,
			row.State,
			row.County,
			row.City,
			row.Address,
		}
		if row.NumEdifices != nil {
			values = append(values, *row.NumEdifices)
		} else {
			values = append(values, "")
		}
		if row.EdificeValue != nil {
			values = append(values, *row.EdificeValue)
		} else {
			values = append(values, "")
		}
		values = append(values, row.Status, adminLink(e.adminSiteURL, row.ScheduleID))

		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		exportFilename("xlsx"), nil
}

type pdfExporter struct{}

func (e *pdfExporter) Export(rows []QueryRow) ([]byte, string, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Census of Religious Bodies - Query Results")
	pdf.Ln(12)

	// The admin link column is dropped on paper.
	headers := exportColumns[:len(exportColumns)-1]
	widths := []float64{28, 50, 40, 12, 28, 28, 40, 16, 20, 25}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range rows {
		cells := []string{
			row.ScheduleID,
			row.ReligiousBodyName,
			row.Denomination,
			row.State,
			row.County,
			row.City,
			row.Address,
			intCell(row.NumEdifices),
			floatCell(row.EdificeValue),
			row.Status,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), "application/pdf", exportFilename("pdf"), nil
}
