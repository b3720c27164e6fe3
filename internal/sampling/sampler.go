package sampling

import (
	"math/rand"
	"strings"

	"github.com/stellarml/lamost-pipeline/internal/catalog"
	"github.com/stellarml/lamost-pipeline/internal/models"
)

// SampledSet is the reproducible draw for one spectral class.
type SampledSet struct {
	Class models.Class
	// Total is the number of catalog records matching the class prefix
	// before the cap was applied.
	Total   int
	Records []models.ParameterRecord
}

// Sample partitions the table rows matching the class prefix and draws at
// most maxN of them without replacement. When the matching subset fits under
// the cap it is returned whole, in table order. Larger subsets are shuffled
// with a seeded source so the same table and seed always yield the same
// ordered draw.
func Sample(table *catalog.Table, class models.Class, maxN int, seed int64) SampledSet {
	var matched []models.ParameterRecord
	for _, record := range table.Records {
		if strings.HasPrefix(record.Subclass, class.Prefix) {
			matched = append(matched, record)
		}
	}

	set := SampledSet{Class: class, Total: len(matched)}
	if len(matched) <= maxN {
		set.Records = matched
		return set
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	set.Records = matched[:maxN]
	return set
}

// Merge concatenates per-class samples in plan order.
func Merge(classes []models.Class, sets map[string]SampledSet) []models.ParameterRecord {
	var merged []models.ParameterRecord
	for _, class := range classes {
		set, ok := sets[class.Label]
		if !ok {
			continue
		}
		merged = append(merged, set.Records...)
	}
	return merged
}

// MergedLabel builds the label prefix of the merged output files, e.g. "AFG".
func MergedLabel(classes []models.Class) string {
	var b strings.Builder
	for _, class := range classes {
		b.WriteString(class.Label)
	}
	return b.String()
}
