package catalog

import "github.com/stellarml/lamost-pipeline/internal/models"

// Summary holds the basic spread of one physical parameter across a set of
// records, logged after sampling the way the survey scripts report it.
type Summary struct {
	Min  float64
	Mean float64
	Max  float64
}

// Stats groups the summaries of the four physical parameter columns.
type Stats struct {
	Teff Summary
	Logg Summary
	FeH  Summary
	SNRG Summary
}

// Describe computes min/mean/max for each physical parameter. An empty input
// returns zeroed stats.
func Describe(records []models.ParameterRecord) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	return Stats{
		Teff: summarize(records, func(r models.ParameterRecord) float64 { return r.Teff }),
		Logg: summarize(records, func(r models.ParameterRecord) float64 { return r.Logg }),
		FeH:  summarize(records, func(r models.ParameterRecord) float64 { return r.FeH }),
		SNRG: summarize(records, func(r models.ParameterRecord) float64 { return r.SNRG }),
	}
}

func summarize(records []models.ParameterRecord, value func(models.ParameterRecord) float64) Summary {
	s := Summary{Min: value(records[0]), Max: value(records[0])}
	var sum float64
	for _, r := range records {
		v := value(r)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(records))
	return s
}
