package models

import "time"

// PostOutcome records one post's trip through upload, scheduling, and
// publishing within a run.
type PostOutcome struct {
	PostID          string    `json:"post_id"`
	SourceAccount   string    `json:"source_account"`
	PostURL         string    `json:"post_url"`
	MediaURL        string    `json:"media_url"`
	Caption         string    `json:"caption"`
	EngagementScore float64   `json:"engagement_score"`
	Slot            time.Time `json:"slot,omitempty"`
	UploadState     string    `json:"upload_state,omitempty"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
}

// WorkflowResult is the per-page record appended to the results store after
// each page completes. Never mutated afterwards.
type WorkflowResult struct {
	RunID     string        `json:"run_id"`
	PageName  string        `json:"page_name"`
	Timestamp time.Time     `json:"timestamp"`
	FetchMode string        `json:"fetch_mode"`
	Fetched   int           `json:"fetched"`
	Ranked    int           `json:"ranked"`
	Uploaded  int           `json:"uploaded"`
	Published int           `json:"published"`
	Failed    int           `json:"failed"`
	Outcomes  []PostOutcome `json:"outcomes"`
	Errors    []string      `json:"errors,omitempty"`
}
