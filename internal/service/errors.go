package service

import (
	"fmt"

	"github.com/maheshrc27/beampage/internal/models"
)

// FetchError reports a scraping-provider failure for a set of accounts.
// Callers treat it as degradable: the fetcher falls back to mock data
// instead of surfacing it, except when the response itself is malformed.
type FetchError struct {
	Accounts []string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %v: %v", e.Accounts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UploadError is a terminal upload-state failure. It skips the post; it
// never aborts the page.
type UploadError struct {
	State models.UploadState
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed in state %s: %v", e.State, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PublishError is a provider rejection of a publish request after retries.
type PublishError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *PublishError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("publish failed (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("publish failed (status %d): %v", e.StatusCode, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
