package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Report summarizes a raw pre-load scan of a catalog file: how many data
// rows it holds and which numeric cells are empty or literal NaN. Load
// rejects empty cells and lets NaN through to the stats, so the scan is
// logged before sampling to make both visible.
type Report struct {
	Rows       int
	EmptyCells map[string]int
	NaNCells   map[string]int
}

// Warnings renders the flagged cell counts in column order, one line per
// column and kind. A clean catalog yields none.
func (r *Report) Warnings() []string {
	var warnings []string
	for _, name := range numericColumns() {
		if n := r.EmptyCells[name]; n > 0 {
			warnings = append(warnings, fmt.Sprintf("column %s has %d empty cells", name, n))
		}
		if n := r.NaNCells[name]; n > 0 {
			warnings = append(warnings, fmt.Sprintf("column %s has %d NaN cells", name, n))
		}
	}
	return warnings
}

// Validate scans a catalog file without the strict numeric parsing Load
// applies. It checks the header for the required columns, counts data rows,
// and tallies empty and NaN cells in the numeric columns.
func Validate(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("catalog %s is missing required column %q", path, name)
		}
	}

	report := &Report{
		EmptyCells: make(map[string]int),
		NaNCells:   make(map[string]int),
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record at line %d of %s: %w", report.Rows+2, path, err)
		}
		report.Rows++

		for _, name := range numericColumns() {
			value := strings.TrimSpace(row[index[name]])
			if value == "" {
				report.EmptyCells[name]++
				continue
			}
			if strings.EqualFold(value, "nan") {
				report.NaNCells[name]++
			}
		}
	}

	return report, nil
}

func numericColumns() []string {
	return requiredColumns[2:]
}
