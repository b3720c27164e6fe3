package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/stellarml/lamost-pipeline/internal/archive"
	"github.com/stellarml/lamost-pipeline/internal/models"
	"github.com/stellarml/lamost-pipeline/pkg/checksum"
)

// SpectrumFetcher is the narrow archive contract the retriever depends on:
// one request per call, bytes or a classified error back.
type SpectrumFetcher interface {
	FetchSpectrum(ctx context.Context, obsid string) ([]byte, error)
}

// OutcomeRecorder persists per-identifier results as they resolve. A nil
// recorder disables journaling.
type OutcomeRecorder interface {
	RecordOutcome(runID, classLabel, obsid string, rec models.OutcomeRecord) error
}

// Config bounds the per-identifier retry loop.
type Config struct {
	// MaxAttempts is the total number of requests allowed per identifier,
	// including the first one.
	MaxAttempts int
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
}

// Retriever downloads the spectra named by an obsid list into per-class
// directories, one identifier at a time, and rewrites the class failure log
// after each pass. Errors never abort a pass; they are scoped to the
// identifier that raised them.
type Retriever struct {
	fetcher    SpectrumFetcher
	spectraDir string
	config     Config
	journal    OutcomeRecorder
	runID      string
}

func NewRetriever(fetcher SpectrumFetcher, spectraDir string, cfg Config) *Retriever {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retriever{
		fetcher:    fetcher,
		spectraDir: spectraDir,
		config:     cfg,
	}
}

// WithJournal attaches an outcome recorder for the given run.
func (r *Retriever) WithJournal(journal OutcomeRecorder, runID string) *Retriever {
	r.journal = journal
	r.runID = runID
	return r
}

// ClassResult summarizes one retrieval pass over a class obsid list.
type ClassResult struct {
	ClassLabel   string
	Succeeded    int
	Failed       int
	Skipped      int
	FailedObsIDs []string
}

// ProcessClass attempts every obsid exactly once, in list order. Identifiers
// whose destination file already exists are skipped without a request. The
// class failure log is overwritten with exactly this pass's failures before
// returning. A context cancellation stops the pass at the current identifier
// boundary and is the only error this returns besides directory creation.
func (r *Retriever) ProcessClass(ctx context.Context, classLabel string, obsids []string) (*ClassResult, error) {
	typeDir := filepath.Join(r.spectraDir, fmt.Sprintf("type_%s", classLabel))
	if err := os.MkdirAll(typeDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spectra directory %s: %w", typeDir, err)
	}

	result := &ClassResult{ClassLabel: classLabel}
	total := len(obsids)
	log.Printf("Starting download of %d type %s spectra...", total, classLabel)

	for i, obsid := range obsids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		r.processObsID(ctx, typeDir, classLabel, obsid, result)

		if (i+1)%10 == 0 {
			log.Printf("Type %s progress: %d/%d (%.2f%%)", classLabel, i+1, total, float64(i+1)/float64(total)*100)
		}
	}

	if err := WriteFailureLog(r.spectraDir, classLabel, result.FailedObsIDs); err != nil {
		return result, err
	}

	log.Printf("Type %s done: %d succeeded, %d failed, %d skipped", classLabel, result.Succeeded, result.Failed, result.Skipped)
	return result, nil
}

func (r *Retriever) processObsID(ctx context.Context, typeDir, classLabel, obsid string, result *ClassResult) {
	destPath := filepath.Join(typeDir, obsid+".fits.gz")

	if info, err := os.Stat(destPath); err == nil {
		result.Skipped++
		rec := models.OutcomeRecord{Outcome: models.OutcomeSkipped}
		if r.journal != nil {
			rec.Bytes = int(info.Size())
			if digest, err := checksum.File(destPath); err == nil {
				rec.Checksum = digest
			}
		}
		r.record(classLabel, obsid, rec)
		return
	}

	payload, attempts, err := r.fetchWithRetry(ctx, obsid)
	if err != nil {
		log.Printf("Download failed for obsid %s after %d attempt(s): %v", obsid, attempts, err)
		result.Failed++
		result.FailedObsIDs = append(result.FailedObsIDs, obsid)
		r.record(classLabel, obsid, models.OutcomeRecord{
			Outcome:      models.OutcomeFailed,
			Attempts:     attempts,
			ErrorMessage: err.Error(),
		})
		return
	}

	if err := os.WriteFile(destPath, payload, 0o644); err != nil {
		log.Printf("Failed to persist spectrum for obsid %s: %v", obsid, err)
		result.Failed++
		result.FailedObsIDs = append(result.FailedObsIDs, obsid)
		r.record(classLabel, obsid, models.OutcomeRecord{
			Outcome:      models.OutcomeFailed,
			Attempts:     attempts,
			ErrorMessage: err.Error(),
		})
		return
	}

	result.Succeeded++
	r.record(classLabel, obsid, models.OutcomeRecord{
		Outcome:  models.OutcomeSucceeded,
		Attempts: attempts,
		Checksum: checksum.Payload(payload),
		Bytes:    len(payload),
	})
}

// fetchWithRetry issues up to MaxAttempts requests for one obsid, waiting
// RetryDelay between attempts. Non-retriable failures stop immediately.
func (r *Retriever) fetchWithRetry(ctx context.Context, obsid string) ([]byte, int, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(r.config.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, attempt - 1, ctx.Err()
			case <-timer.C:
			}
		}

		payload, err := r.fetcher.FetchSpectrum(ctx, obsid)
		if err == nil {
			if !looksLikeSpectrum(payload) {
				lastErr = &models.FetchError{ObsID: obsid, Message: "malformed payload from archive"}
				continue
			}
			return payload, attempt, nil
		}

		lastErr = err
		if !archive.Retriable(err) {
			return nil, attempt, err
		}
	}

	return nil, r.config.MaxAttempts, lastErr
}

// looksLikeSpectrum checks for the two shapes the archive serves: gzipped
// FITS or a bare FITS header. Anything else (an HTML error page behind a
// 200, typically) is treated as a transient server fault.
func looksLikeSpectrum(payload []byte) bool {
	if len(payload) >= 2 && payload[0] == 0x1f && payload[1] == 0x8b {
		return true
	}
	return bytes.HasPrefix(payload, []byte("SIMPLE"))
}

func (r *Retriever) record(classLabel, obsid string, rec models.OutcomeRecord) {
	if r.journal == nil {
		return
	}
	if err := r.journal.RecordOutcome(r.runID, classLabel, obsid, rec); err != nil {
		log.Printf("WARN: Failed to journal outcome for obsid %s: %v", obsid, err)
	}
}
