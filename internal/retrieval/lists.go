package retrieval

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadObsIDList loads an identifier list written by the sampler (or a
// failure log from a previous pass): one obsid per line, blank lines ignored.
func ReadObsIDList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open obsid list %s: %w", path, err)
	}
	defer file.Close()

	var obsids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		obsids = append(obsids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obsid list %s: %w", path, err)
	}
	return obsids, nil
}

// FailureLogPath names the per-class failure log under the spectra root.
func FailureLogPath(spectraDir, classLabel string) string {
	return filepath.Join(spectraDir, fmt.Sprintf("type_%s_failed_obsids.txt", classLabel))
}

// WriteFailureLog overwrites the class failure log with exactly the obsids
// that failed in the latest pass. An empty pass leaves an empty file so the
// log never carries stale failures forward.
func WriteFailureLog(spectraDir, classLabel string, failedObsIDs []string) error {
	path := FailureLogPath(spectraDir, classLabel)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create failure log %s: %w", path, err)
	}
	defer file.Close()

	for _, obsid := range failedObsIDs {
		if _, err := fmt.Fprintln(file, obsid); err != nil {
			return fmt.Errorf("failed to write failure log %s: %w", path, err)
		}
	}
	return nil
}
