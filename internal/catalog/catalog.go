package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stellarml/lamost-pipeline/internal/models"
)

// Core catalog columns every parameter table must provide. Any additional
// columns are carried through to the persisted samples untouched.
var requiredColumns = []string{"obsid", "subclass", "teff", "logg", "feh", "snrg"}

// Table is an ordered, immutable view of one parameter catalog file.
type Table struct {
	// Columns is the source header in its original order.
	Columns []string
	Records []models.ParameterRecord
}

// Load reads a parameter catalog from a CSV file. A missing file, a missing
// required column, or an unparsable numeric cell aborts the load; callers
// treat any error here as fatal for the run.
func Load(path string) (*Table, error) {
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

	table := &Table{Columns: header}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record at line %d of %s: %w", line+1, path, err)
		}
		line++

		record, err := parseRow(header, index, row)
		if err != nil {
			return nil, fmt.Errorf("invalid record at line %d of %s: %w", line, path, err)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

func parseRow(header []string, index map[string]int, row []string) (models.ParameterRecord, error) {
	record := models.ParameterRecord{
		ObsID:    strings.TrimSpace(row[index["obsid"]]),
		Subclass: strings.TrimSpace(row[index["subclass"]]),
	}

	if !record.IsValid() {
		return models.ParameterRecord{}, fmt.Errorf("empty obsid or subclass")
	}

	var err error
	if record.Teff, err = parseFloat("teff", row[index["teff"]]); err != nil {
		return models.ParameterRecord{}, err
	}
	if record.Logg, err = parseFloat("logg", row[index["logg"]]); err != nil {
		return models.ParameterRecord{}, err
	}
	if record.FeH, err = parseFloat("feh", row[index["feh"]]); err != nil {
		return models.ParameterRecord{}, err
	}
	if record.SNRG, err = parseFloat("snrg", row[index["snrg"]]); err != nil {
		return models.ParameterRecord{}, err
	}

	for i, name := range header {
		if isRequiredColumn(name) || i >= len(row) {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[name] = row[i]
	}

	return record, nil
}

func parseFloat(column, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: cannot parse %q as a number", column, value)
	}
	return f, nil
}

func isRequiredColumn(name string) bool {
	for _, c := range requiredColumns {
		if name == c {
			return true
		}
	}
	return false
}
