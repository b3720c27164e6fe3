package models

// Outcome is the terminal result of one identifier in a retrieval pass.
type Outcome string

const (
	// OutcomeSucceeded means the spectrum payload was fetched and persisted.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed means retries were exhausted or the archive rejected
	// the request with a non-retriable status.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the destination file already existed and no
	// request was issued.
	OutcomeSkipped Outcome = "skipped"
)

// OutcomeRecord is the journaled detail of one identifier's result.
type OutcomeRecord struct {
	Outcome      Outcome
	Attempts     int
	Checksum     string
	Bytes        int
	ErrorMessage string
}
