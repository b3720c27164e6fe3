package models

import "fmt"

// FetchError records why a single identifier failed during retrieval.
type FetchError struct {
	ObsID   string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("obsid %s: %s - %v", e.ObsID, e.Message, e.Err)
	}
	return fmt.Sprintf("obsid %s: %s", e.ObsID, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
