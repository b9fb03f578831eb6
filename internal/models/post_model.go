package models

import "time"

// RawPost is one scraped item, already validated at the fetch boundary:
// counters default to zero, VideoURL is always non-empty (image posts are
// filtered out at the source).
type RawPost struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	VideoURL      string    `json:"video_url"`
	Caption       string    `json:"caption"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	ViewsCount    int       `json:"views_count"`
	Timestamp     time.Time `json:"timestamp"`
	OwnerUsername string    `json:"owner_username"`
}

// RankedPost is a RawPost with its computed engagement score.
type RankedPost struct {
	RawPost
	EngagementScore float64 `json:"engagement_score"`
}

// Fetch modes reported alongside scraped posts so results can be annotated.
const (
	FetchModeLive = "live"
	FetchModeMock = "mock"
)
