package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/stellarml/lamost-pipeline/internal/models"
)

// Write persists records as a CSV file with the given header, preserving the
// source column order. Core numeric columns are re-rendered from the parsed
// values; extra columns are written back verbatim.
func Write(path string, columns []string, records []models.ParameterRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	row := make([]string, len(columns))
	for _, record := range records {
		for i, name := range columns {
			row[i] = columnValue(record, name)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

func columnValue(record models.ParameterRecord, column string) string {
	switch column {
	case "obsid":
		return record.ObsID
	case "subclass":
		return record.Subclass
	case "teff":
		return formatFloat(record.Teff)
	case "logg":
		return formatFloat(record.Logg)
	case "feh":
		return formatFloat(record.FeH)
	case "snrg":
		return formatFloat(record.SNRG)
	default:
		return record.Extra[column]
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
