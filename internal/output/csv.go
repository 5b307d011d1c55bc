package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vuesweep/vuesweep/pkg/models"
)

// csvHeader is the fixed column set for flat finding reports.
var csvHeader = []string{"Type", "File", "Line Number", "Code", "Scope"}

// CSVSink writes finding records to a CSV file, creating parent directories
// as needed.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink for the given path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Path returns the destination file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Write persists the records. The file is truncated on every run so the
// report always reflects the latest analysis.
func (s *CSVSink) Write(records []models.Record) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Category, r.File, r.Line, r.Code, r.Scope}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RecordCount formats a record total for footers.
func RecordCount(n int) string {
	return strconv.Itoa(n) + " findings"
}
