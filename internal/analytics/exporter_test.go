package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []QueryRow {
	edifices := 2
	value := 15000.0
	return []QueryRow{
		{
			ScheduleID:        "schedule-0001",
			ReligiousBodyName: "First Baptist Church",
			Denomination:      "Northern Baptist Convention",
			State:             "VA",
			County:            "Fairfax",
			City:              "Vienna",
			Address:           "120 Main St",
			NumEdifices:       &edifices,
			EdificeValue:      &value,
			Status:            "approved",
		},
		{
			ScheduleID:        "schedule-0002",
			ReligiousBodyName: "St. Mary's",
			Denomination:      "Roman Catholic Church",
			State:             "NY",
			County:            "Albany",
			City:              "Albany",
			Status:            "in_progress",
		},
	}
}

func TestCSVExportColumnOrder(t *testing.T) {
	exporter := NewExporter("csv", "https://admin.example.org")
	require.NotNil(t, exporter)

	data, contentType, filename, err := exporter.Export(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, ".csv")

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Schedule ID", "Religious Body Name", "Denomination", "State", "County",
		"City", "Address", "Num Edifices", "Edifice Value", "Transcription Status",
		"Admin Link",
	}, records[0])

	assert.Equal(t, "schedule-0001", records[1][0])
	assert.Equal(t, "2", records[1][7])
	assert.Equal(t, "15000.00", records[1][8])
	assert.Equal(t, "https://admin.example.org/schedules/schedule-0001", records[1][10])

	// Missing numbers export as empty cells, not zeros.
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, "", records[2][8])
}

func TestJSONExportNestedLocation(t *testing.T) {
	exporter := NewExporter("json", "")
	require.NotNil(t, exporter)

	data, contentType, _, err := exporter.Export(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	// Indented output.
	assert.Contains(t, string(data), "\n  ")

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	loc, ok := records[0]["location"].(map[string]interface{})
	require.True(t, ok, "location must be nested")
	assert.Equal(t, "VA", loc["state"])
	assert.Equal(t, "Fairfax", loc["county"])
	assert.Equal(t, "Vienna", loc["city"])

	assert.Nil(t, records[1]["num_edifices"])
}

func TestExcelExport(t *testing.T) {
	exporter := NewExporter("excel", "")
	require.NotNil(t, exporter)

	data, contentType, filename, err := exporter.Export(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
	assert.Contains(t, filename, ".xlsx")
	assert.NotEmpty(t, data)
}

func TestPDFExport(t *testing.T) {
	exporter := NewExporter("pdf", "")
	require.NotNil(t, exporter)

	data, contentType, filename, err := exporter.Export(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Contains(t, filename, ".pdf")
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestUnknownFormat(t *testing.T) {
	assert.Nil(t, NewExporter("xml", ""))
	assert.Nil(t, NewExporter("", ""))
}
