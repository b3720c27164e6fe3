package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarml/lamost-pipeline/internal/models"
)

func TestLoadPlan(t *testing.T) {
	t.Run("Default A/F/G plan from config values", func(t *testing.T) {
		cfg := &Config{SampleSize: 1000, SampleSeed: 42}

		plan, err := LoadPlan(cfg)

		require.NoError(t, err)
		assert.Equal(t, models.DefaultClasses(), plan.Classes)
		assert.Equal(t, 1000, plan.MaxPerClass)
		assert.Equal(t, int64(42), plan.Seed)
	})

	t.Run("YAML plan file overrides the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		content := `classes:
  - label: K
    prefix: K
  - label: M
    prefix: M
max_per_class: 250
seed: 7
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		cfg := &Config{PlanPath: path, SampleSize: 1000, SampleSeed: 42}

		plan, err := LoadPlan(cfg)

		require.NoError(t, err)
		assert.Equal(t, []models.Class{{Label: "K", Prefix: "K"}, {Label: "M", Prefix: "M"}}, plan.Classes)
		assert.Equal(t, 250, plan.MaxPerClass)
		assert.Equal(t, int64(7), plan.Seed)
	})

	t.Run("Plan file without cap or seed inherits config values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		content := "classes:\n  - label: A\n    prefix: A\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		cfg := &Config{PlanPath: path, SampleSize: 500, SampleSeed: 11}

		plan, err := LoadPlan(cfg)

		require.NoError(t, err)
		assert.Equal(t, 500, plan.MaxPerClass)
		assert.Equal(t, int64(11), plan.Seed)
	})

	t.Run("Error case - missing plan file", func(t *testing.T) {
		cfg := &Config{PlanPath: filepath.Join(t.TempDir(), "nope.yaml")}

		_, err := LoadPlan(cfg)

		assert.Error(t, err)
	})

	t.Run("Error case - empty class list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		require.NoError(t, os.WriteFile(path, []byte("classes: []\nmax_per_class: 10\n"), 0o644))
		cfg := &Config{PlanPath: path, SampleSize: 10}

		_, err := LoadPlan(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no classes")
	})

	t.Run("Error case - class without prefix", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		require.NoError(t, os.WriteFile(path, []byte("classes:\n  - label: A\nmax_per_class: 10\n"), 0o644))
		cfg := &Config{PlanPath: path, SampleSize: 10}

		_, err := LoadPlan(cfg)

		assert.Error(t, err)
	})
}
