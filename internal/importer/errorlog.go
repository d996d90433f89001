package importer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrorLog collects row failures for one import run in a timestamped file so
// a batch can finish while problems stay reviewable.
type ErrorLog struct {
	RunID string
	path  string
	file  *os.File
	count int
}

// NewErrorLog opens import_errors_<timestamp>.log in dir. A clean run leaves
// a header-only file behind.
func NewErrorLog(dir string) (*ErrorLog, error) {
	if dir == "" {
		dir = "."
	}
	runID := uuid.NewString()
	path := filepath.Join(dir, fmt.Sprintf("import_errors_%s.log", time.Now().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create error log: %w", err)
	}

	fmt.Fprintf(f, "import run %s started %s\n", runID, time.Now().Format(time.RFC3339))
	return &ErrorLog{RunID: runID, path: path, file: f}, nil
}

// RowError records one failed row and keeps the batch going.
func (e *ErrorLog) RowError(resourceID string, err error) {
	e.count++
	line := fmt.Sprintf("%s resource_id=%s error=%v", time.Now().Format(time.RFC3339), resourceID, err)
	log.Printf("❌ Import row failed: %s", line)
	if e.file != nil {
		fmt.Fprintln(e.file, line)
	}
}

// Count returns the number of failed rows.
func (e *ErrorLog) Count() int {
	return e.count
}

// Path returns the log file location.
func (e *ErrorLog) Path() string {
	return e.path
}

// Close flushes and closes the log file.
func (e *ErrorLog) Close() error {
	if e.file == nil {
		return nil
	}
	fmt.Fprintf(e.file, "import run %s finished with %d row errors\n", e.RunID, e.count)
	return e.file.Close()
}
