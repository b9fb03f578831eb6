package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/transfer"
)

const apifyBaseURL = "https://api.apify.com/v2"

type apifyService struct {
	cfg     config.Config
	client  *http.Client
	baseURL string
	mock    *mockFetcher
}

// NewApifyService builds the live fetcher. On provider errors it degrades
// to synthesized posts rather than failing the run; the returned mode tells
// the caller which happened.
func NewApifyService(cfg config.Config) SourceFetcher {
	return &apifyService{
		cfg:     cfg,
		client:  &http.Client{Timeout: 5 * time.Minute},
		baseURL: apifyBaseURL,
		mock:    NewMockFetcher(),
	}
}

func (s *apifyService) Fetch(ctx context.Context, accounts []string, maxPosts int) (*FetchResult, error) {
	items, err := s.runActor(ctx, accounts, maxPosts)
	if err != nil {
		slog.Info(err.Error())
		log.Printf("Apify actor run failed, falling back to mock data: %v", err)
		return s.mock.Fetch(ctx, accounts, maxPosts)
	}

	posts := make([]models.RawPost, 0, len(items))
	for _, item := range items {
		post, ok := convertApifyItem(&item)
		if !ok {
			continue
		}
		posts = append(posts, post)
	}

	return &FetchResult{Posts: posts, Mode: models.FetchModeLive}, nil
}

// runActor starts the scraper actor synchronously and returns its dataset
// items in one call.
func (s *apifyService) runActor(ctx context.Context, accounts []string, maxPosts int) ([]transfer.ApifyPostItem, error) {
	input := transfer.ApifyActorInput{
		Username:     accounts,
		ResultsLimit: maxPosts,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		s.baseURL, s.cfg.ApifyActorID, s.cfg.ApifyAPIToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Accounts: accounts, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Accounts: accounts,
			Err:      fmt.Errorf("actor run returned status %d: %s", resp.StatusCode, bodyBytes),
		}
	}

	var items []transfer.ApifyPostItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &FetchError{Accounts: accounts, Err: fmt.Errorf("failed to decode dataset items: %w", err)}
	}

	return items, nil
}

// convertApifyItem validates one loosely-typed dataset item into a RawPost.
// Items without a usable video URL are dropped (videos only).
func convertApifyItem(item *transfer.ApifyPostItem) (models.RawPost, bool) {
	videoURL := extractVideoURL(item)
	if videoURL == "" {
		return models.RawPost{}, false
	}

	username := item.QueryUsername
	if username == "" {
		username = item.OwnerUsername
	}

	ts, err := time.Parse(time.RFC3339, item.Timestamp)
	if err != nil {
		ts = time.Time{}
	}

	return models.RawPost{
		ID:            item.ID,
		URL:           item.URL,
		VideoURL:      videoURL,
		Caption:       item.Caption,
		LikesCount:    max(item.LikesCount, 0),
		CommentsCount: max(item.CommentsCount, 0),
		ViewsCount:    max(item.VideoViewCount, 0),
		Timestamp:     ts,
		OwnerUsername: username,
	}, true
}

// extractVideoURL also digs into carousel posts for their first video.
func extractVideoURL(item *transfer.ApifyPostItem) string {
	if item.VideoURL != "" {
		return item.VideoURL
	}

	switch strings.ToLower(item.Type) {
	case "sidecar", "carousel":
		for _, media := range item.SidecarMedia {
			if strings.EqualFold(media.Type, "video") && media.VideoURL != "" {
				return media.VideoURL
			}
		}
	}

	if strings.Contains(strings.ToLower(item.URL), ".mp4") {
		return item.URL
	}

	return ""
}
