package service

import (
	"context"
	"log"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
)

// FetchResult carries the scraped posts plus which mode produced them, so
// the orchestrator can annotate results without branching on it.
type FetchResult struct {
	Posts []models.RawPost
	Mode  string
}

// SourceFetcher returns video posts for a list of source accounts. Accounts
// with zero eligible videos contribute nothing; that is not an error.
type SourceFetcher interface {
	Fetch(ctx context.Context, accounts []string, maxPosts int) (*FetchResult, error)
}

// NewSourceFetcher picks the provider implementation once per run: the live
// Apify-backed fetcher when a token is configured, otherwise mock mode.
func NewSourceFetcher(cfg config.Config) SourceFetcher {
	if cfg.ApifyAPIToken == "" {
		log.Println("Warning: APIFY_API_TOKEN not configured, fetcher running in mock mode")
		return NewMockFetcher()
	}
	return NewApifyService(cfg)
}
