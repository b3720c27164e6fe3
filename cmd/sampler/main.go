package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/stellarml/lamost-pipeline/internal/catalog"
	"github.com/stellarml/lamost-pipeline/internal/config"
	"github.com/stellarml/lamost-pipeline/internal/journal"
	"github.com/stellarml/lamost-pipeline/internal/models"
	"github.com/stellarml/lamost-pipeline/internal/sampling"
)

func setup() (string, *config.Config, *config.SamplePlan, error) {
	if len(os.Args) < 2 {
		return "", nil, nil, fmt.Errorf("please provide the parameter catalog path as a command-line argument")
	}
	catalogPath := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	plan, err := config.LoadPlan(cfg)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load sample plan: %w", err)
	}

	return catalogPath, cfg, plan, nil
}

func execute(catalogPath string, cfg *config.Config, plan *config.SamplePlan) error {
	if err := os.MkdirAll(cfg.SampleDir, 0o755); err != nil {
		return fmt.Errorf("failed to create sample directory %s: %w", cfg.SampleDir, err)
	}

	log.Printf("Checking parameter catalog: %s", catalogPath)
	report, err := catalog.Validate(catalogPath)
	if err != nil {
		return err
	}
	log.Printf("Catalog check: %d data rows", report.Rows)
	for _, warning := range report.Warnings() {
		log.Printf("WARN: %s", warning)
	}

	table, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	log.Printf("Total records: %d", len(table.Records))

	unmatched := 0
	for _, record := range table.Records {
		if _, ok := models.ClassFor(plan.Classes, record.Subclass); !ok {
			unmatched++
		}
	}
	if unmatched > 0 {
		log.Printf("%d records match no configured class prefix and are excluded from sampling", unmatched)
	}

	log.Println("Starting per-class sampling...")
	sets := make(map[string]sampling.SampledSet, len(plan.Classes))
	for _, class := range plan.Classes {
		set := sampling.Sample(table, class, plan.MaxPerClass, plan.Seed)
		sets[class.Label] = set
		log.Printf("Type %s: %d total, sampled %d", class.Label, set.Total, len(set.Records))

		if err := sampling.PersistSet(cfg.SampleDir, table.Columns, set); err != nil {
			return err
		}
		logStats(fmt.Sprintf("type %s", class.Label), catalog.Describe(set.Records))
	}

	merged := sampling.Merge(plan.Classes, sets)
	mergedLabel := sampling.MergedLabel(plan.Classes)
	if err := sampling.PersistMerged(cfg.SampleDir, mergedLabel, table.Columns, merged); err != nil {
		return err
	}
	log.Printf("Merged sample: %d records saved under label %s", len(merged), mergedLabel)
	logStats("merged", catalog.Describe(merged))

	return nil
}

func logStats(label string, stats catalog.Stats) {
	log.Printf("Stats for %s: teff %.1f/%.1f/%.1f logg %.2f/%.2f/%.2f feh %.2f/%.2f/%.2f snrg %.1f/%.1f/%.1f (min/mean/max)",
		label,
		stats.Teff.Min, stats.Teff.Mean, stats.Teff.Max,
		stats.Logg.Min, stats.Logg.Mean, stats.Logg.Max,
		stats.FeH.Min, stats.FeH.Mean, stats.FeH.Max,
		stats.SNRG.Min, stats.SNRG.Mean, stats.SNRG.Max)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	catalogPath, cfg, plan, err := setup()
	if err != nil {
		log.Fatal(err)
	}

	var runJournal *journal.Journal
	var runID string
	if cfg.JournalPath != "" {
		runJournal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.Fatalf("Failed to open run journal: %v", err)
		}
		defer runJournal.Close()

		if runID, err = runJournal.StartRun("sampler"); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
	}

	if err := execute(catalogPath, cfg, plan); err != nil {
		log.Fatalf("Error during sampling: %v", err)
	}

	if runJournal != nil {
		notes := fmt.Sprintf("catalog=%s out=%s", catalogPath, cfg.SampleDir)
		if err := runJournal.FinishRun(runID, notes); err != nil {
			log.Printf("WARN: Failed to finalize run journal entry: %v", err)
		}
	}

	log.Println("Sampling finished.")
	log.Printf("Execution time: %s", time.Since(startTime))
}
