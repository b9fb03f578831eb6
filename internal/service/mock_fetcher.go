package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/beampage/internal/models"
)

// mockFetcher synthesizes deterministic-looking posts so the rest of the
// pipeline stays exercisable without scraping credentials.
type mockFetcher struct{}

func NewMockFetcher() *mockFetcher {
	return &mockFetcher{}
}

const mockPostsPerAccount = 5

func (m *mockFetcher) Fetch(ctx context.Context, accounts []string, maxPosts int) (*FetchResult, error) {
	count := maxPosts
	if count > mockPostsPerAccount {
		count = mockPostsPerAccount
	}

	var posts []models.RawPost
	for _, username := range accounts {
		for i := 0; i < count; i++ {
			posts = append(posts, models.RawPost{
				ID:            fmt.Sprintf("mock_post_%s_%d", username, i),
				URL:           fmt.Sprintf("https://instagram.com/p/mock_%s_%d", username, i),
				VideoURL:      fmt.Sprintf("https://mock-video-url.com/%s_%d.mp4", username, i),
				Caption:       fmt.Sprintf("Mock caption for %s post %d", username, i),
				LikesCount:    1000 + i*100,
				CommentsCount: 50 + i*10,
				ViewsCount:    5000 + i*500,
				Timestamp:     time.Now(),
				OwnerUsername: username,
			})
		}
	}

	return &FetchResult{Posts: posts, Mode: models.FetchModeMock}, nil
}
