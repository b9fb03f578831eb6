package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/transfer"
)

func TestFactoryPicksMockWithoutToken(t *testing.T) {
	fetcher := NewSourceFetcher(config.Config{})

	result, err := fetcher.Fetch(context.Background(), []string{"someaccount"}, 10)

	require.NoError(t, err)
	assert.Equal(t, models.FetchModeMock, result.Mode)
	assert.NotEmpty(t, result.Posts, "mock mode returns synthetic posts, never an error")
}

func TestMockFetcherCapsPerAccount(t *testing.T) {
	fetcher := NewMockFetcher()

	result, err := fetcher.Fetch(context.Background(), []string{"a", "b"}, 3)

	require.NoError(t, err)
	assert.Len(t, result.Posts, 6)
	for _, post := range result.Posts {
		assert.NotEmpty(t, post.VideoURL)
		assert.NotEmpty(t, post.ID)
	}
}

func newTestApifyService(cfg config.Config, baseURL string) *apifyService {
	return &apifyService{
		cfg:     cfg,
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		mock:    NewMockFetcher(),
	}
}

func TestApifyFetchFiltersNonVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]transfer.ApifyPostItem{
			{ID: "video1", URL: "https://ig.example/p/1", Type: "Video", VideoURL: "https://cdn.example/1.mp4", LikesCount: 10, OwnerUsername: "acct"},
			{ID: "image1", URL: "https://ig.example/p/2", Type: "Image", DisplayURL: "https://cdn.example/2.jpg", OwnerUsername: "acct"},
			{ID: "carousel1", URL: "https://ig.example/p/3", Type: "Sidecar", OwnerUsername: "acct", SidecarMedia: []transfer.ApifySidecarItem{
				{Type: "Image"},
				{Type: "Video", VideoURL: "https://cdn.example/3.mp4"},
			}},
		})
	}))
	defer srv.Close()

	fetcher := newTestApifyService(config.Config{ApifyAPIToken: "tok", ApifyActorID: "actor"}, srv.URL)
	result, err := fetcher.Fetch(context.Background(), []string{"acct"}, 10)

	require.NoError(t, err)
	assert.Equal(t, models.FetchModeLive, result.Mode)
	require.Len(t, result.Posts, 2, "image posts are dropped at the source")
	assert.Equal(t, "video1", result.Posts[0].ID)
	assert.Equal(t, "carousel1", result.Posts[1].ID)
	assert.Equal(t, "https://cdn.example/3.mp4", result.Posts[1].VideoURL)
}

func TestApifyFetchZeroVideosIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]transfer.ApifyPostItem{
			{ID: "image1", Type: "Image", DisplayURL: "https://cdn.example/2.jpg"},
		})
	}))
	defer srv.Close()

	fetcher := newTestApifyService(config.Config{ApifyAPIToken: "tok", ApifyActorID: "actor"}, srv.URL)
	result, err := fetcher.Fetch(context.Background(), []string{"acct"}, 10)

	require.NoError(t, err)
	assert.Empty(t, result.Posts)
	assert.Equal(t, models.FetchModeLive, result.Mode)
}

func TestApifyFetchDegradesToMockOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := newTestApifyService(config.Config{ApifyAPIToken: "tok", ApifyActorID: "actor"}, srv.URL)
	result, err := fetcher.Fetch(context.Background(), []string{"acct"}, 10)

	require.NoError(t, err)
	assert.Equal(t, models.FetchModeMock, result.Mode)
	assert.NotEmpty(t, result.Posts)
}

func TestConvertApifyItemDefaultsNegativeCounters(t *testing.T) {
	post, ok := convertApifyItem(&transfer.ApifyPostItem{
		ID:             "p1",
		VideoURL:       "https://cdn.example/1.mp4",
		LikesCount:     -5,
		CommentsCount:  -1,
		VideoViewCount: -100,
		QueryUsername:  "queried",
		OwnerUsername:  "owner",
	})

	require.True(t, ok)
	assert.Equal(t, 0, post.LikesCount)
	assert.Equal(t, 0, post.CommentsCount)
	assert.Equal(t, 0, post.ViewsCount)
	assert.Equal(t, "queried", post.OwnerUsername)
}
