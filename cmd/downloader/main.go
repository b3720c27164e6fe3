package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stellarml/lamost-pipeline/internal/archive"
	"github.com/stellarml/lamost-pipeline/internal/config"
	"github.com/stellarml/lamost-pipeline/internal/journal"
	"github.com/stellarml/lamost-pipeline/internal/retrieval"
)

func setup() (*config.Config, *config.SamplePlan, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.ArchiveToken == "" {
		return nil, nil, fmt.Errorf("LAMOST_TOKEN environment variable is not set")
	}

	// An explicit argument overrides the directory holding the obsid lists.
	if len(os.Args) > 1 {
		cfg.SampleDir = os.Args[1]
	}

	plan, err := config.LoadPlan(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sample plan: %w", err)
	}

	return cfg, plan, nil
}

func execute(ctx context.Context, cfg *config.Config, plan *config.SamplePlan, retriever *retrieval.Retriever) (string, error) {
	// Read every class list up front so the run can report what it is
	// about to attempt before the first request goes out.
	classObsIDs := make(map[string][]string, len(plan.Classes))
	total := 0
	for _, class := range plan.Classes {
		listPath := filepath.Join(cfg.SampleDir, fmt.Sprintf("type_%s_obsid.txt", class.Label))
		obsids, err := retrieval.ReadObsIDList(listPath)
		if err != nil {
			return "", err
		}
		classObsIDs[class.Label] = obsids
		log.Printf("Type %s: %d spectra to download", class.Label, len(obsids))
		total += len(obsids)
	}
	log.Printf("This run will attempt %d spectra in total", total)

	if err := os.MkdirAll(cfg.SpectraDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create spectra directory %s: %w", cfg.SpectraDir, err)
	}

	var notes string
	for _, class := range plan.Classes {
		obsids := classObsIDs[class.Label]
		if len(obsids) == 0 {
			log.Printf("Type %s has no obsids to download, skipping.", class.Label)
			continue
		}

		result, err := retriever.ProcessClass(ctx, class.Label, obsids)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Printf("Run interrupted during type %s: %d succeeded, %d failed, %d skipped so far",
					class.Label, result.Succeeded, result.Failed, result.Skipped)
			}
			return notes, err
		}
		notes += fmt.Sprintf("%s:%d/%d/%d ", class.Label, result.Succeeded, result.Failed, result.Skipped)
	}

	return notes, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	cfg, plan, err := setup()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := archive.New(cfg.ArchiveBaseURL, cfg.ArchiveToken, cfg.DataRelease, cfg.FetchTimeout)
	retriever := retrieval.NewRetriever(client, cfg.SpectraDir, retrieval.Config{
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	})

	var runJournal *journal.Journal
	var runID string
	if cfg.JournalPath != "" {
		runJournal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.Fatalf("Failed to open run journal: %v", err)
		}
		defer runJournal.Close()

		if runID, err = runJournal.StartRun("downloader"); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
		retriever.WithJournal(runJournal, runID)
	}

	notes, err := execute(ctx, cfg, plan, retriever)

	if runJournal != nil {
		if jerr := runJournal.FinishRun(runID, notes); jerr != nil {
			log.Printf("WARN: Failed to finalize run journal entry: %v", jerr)
		}
	}

	if err != nil {
		log.Fatalf("Error during download: %v", err)
	}

	log.Println("Download pass finished.")
	log.Printf("Execution time: %s", time.Since(startTime))
}
