package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// ImportSchedules streams a transcription export CSV through the pipeline.
// Only a missing file or an unreadable header aborts the run; everything
// else is a per-row problem.
func ImportSchedules(store Store, path string, limit int, resetStatus bool) (Summary, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, "", fmt.Errorf("cannot open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Summary{}, "", fmt.Errorf("cannot read CSV header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.ToLower(name))
	}
	hasResourceID := false
	for _, name := range header {
		if name == "resource_id" {
			hasResourceID = true
			break
		}
	}
	if !hasResourceID {
		return Summary{}, "", fmt.Errorf("CSV is missing required column resource_id")
	}

	errlog, err := NewErrorLog(os.Getenv("IMPORT_ERROR_LOG_DIR"))
	if err != nil {
		return Summary{}, "", err
	}
	defer errlog.Close()

	pipeline := NewPipeline(store, errlog, resetStatus)

	log.Printf("🔄 Import run %s starting from %s", errlog.RunID, path)

	processed := 0
	for {
		if limit > 0 && processed >= limit {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pipeline.summary.Failed++
			errlog.RowError("(unreadable)", err)
			continue
		}

		row := Row{}
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		pipeline.ProcessRow(row)
		processed++

		if processed%500 == 0 {
			log.Printf("🔄 Imported %d rows...", processed)
		}
	}

	summary := pipeline.Summary()
	log.Printf("✅ Import run %s finished: %d created, %d updated, %d failed, %d warnings (errors in %s)",
		errlog.RunID, summary.Created, summary.Updated, summary.Failed, summary.Warnings, errlog.Path())

	return summary, errlog.Path(), nil
}
