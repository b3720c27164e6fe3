package config

import (
	"fmt"
	"os"

	"github.com/stellarml/lamost-pipeline/internal/models"
	"gopkg.in/yaml.v3"
)

// SamplePlan defines which spectral classes to sample, how many records per
// class, and the seed that makes the draw reproducible.
type SamplePlan struct {
	Classes     []models.Class `yaml:"classes"`
	MaxPerClass int            `yaml:"max_per_class"`
	Seed        int64          `yaml:"seed"`
}

// LoadPlan builds the sampling plan. When the config names a plan file it is
// parsed as YAML; otherwise the default A/F/G plan is built from the config
// values.
func LoadPlan(cfg *Config) (*SamplePlan, error) {
	if cfg.PlanPath == "" {
		return &SamplePlan{
			Classes:     models.DefaultClasses(),
			MaxPerClass: cfg.SampleSize,
			Seed:        cfg.SampleSeed,
		}, nil
	}

	data, err := os.ReadFile(cfg.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample plan %s: %w", cfg.PlanPath, err)
	}

	plan := &SamplePlan{
		MaxPerClass: cfg.SampleSize,
		Seed:        cfg.SampleSeed,
	}
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("failed to parse sample plan %s: %w", cfg.PlanPath, err)
	}

	if len(plan.Classes) == 0 {
		return nil, fmt.Errorf("sample plan %s defines no classes", cfg.PlanPath)
	}
	for _, c := range plan.Classes {
		if c.Label == "" || c.Prefix == "" {
			return nil, fmt.Errorf("sample plan %s has a class with an empty label or prefix", cfg.PlanPath)
		}
	}
	if plan.MaxPerClass <= 0 {
		return nil, fmt.Errorf("sample plan %s: max_per_class must be positive, got %d", cfg.PlanPath, plan.MaxPerClass)
	}

	return plan, nil
}
