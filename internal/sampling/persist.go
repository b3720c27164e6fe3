package sampling

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stellarml/lamost-pipeline/internal/catalog"
	"github.com/stellarml/lamost-pipeline/internal/models"
)

// PersistSet writes one class sample as a parameter CSV plus a parallel
// obsid list, named type_<label>_params.csv and type_<label>_obsid.txt.
// Any write failure is fatal to the sampling run.
func PersistSet(dir string, columns []string, set SampledSet) error {
	paramsPath := filepath.Join(dir, fmt.Sprintf("type_%s_params.csv", set.Class.Label))
	if err := catalog.Write(paramsPath, columns, set.Records); err != nil {
		return err
	}

	obsidPath := filepath.Join(dir, fmt.Sprintf("type_%s_obsid.txt", set.Class.Label))
	return WriteObsIDList(obsidPath, set.Records)
}

// PersistMerged writes the concatenated sample under <label>_merged_params.csv
// and <label>_merged_obsid.txt, where label joins the class labels (e.g. AFG).
func PersistMerged(dir, label string, columns []string, records []models.ParameterRecord) error {
	paramsPath := filepath.Join(dir, fmt.Sprintf("%s_merged_params.csv", label))
	if err := catalog.Write(paramsPath, columns, records); err != nil {
		return err
	}

	obsidPath := filepath.Join(dir, fmt.Sprintf("%s_merged_obsid.txt", label))
	return WriteObsIDList(obsidPath, records)
}

// WriteObsIDList writes one obsid per line, in record order, newline-terminated.
func WriteObsIDList(path string, records []models.ParameterRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	for _, record := range records {
		if _, err := fmt.Fprintln(file, record.ObsID); err != nil {
			return fmt.Errorf("failed to write obsid to %s: %w", path, err)
		}
	}
	return nil
}
