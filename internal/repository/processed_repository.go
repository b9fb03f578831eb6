package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ProcessedPostsRepository remembers which source posts have already been
// reposted so a later run never schedules the same post twice.
type ProcessedPostsRepository interface {
	IsProcessed(ctx context.Context, postID string) (bool, error)
	Mark(ctx context.Context, postIDs ...string) error
}

type fileProcessedPostsRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileProcessedPostsRepository(path string) ProcessedPostsRepository {
	return &fileProcessedPostsRepository{path: path}
}

func (r *fileProcessedPostsRepository) IsProcessed(ctx context.Context, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	processed, err := r.load()
	if err != nil {
		return false, err
	}
	_, ok := processed[postID]
	return ok, nil
}

func (r *fileProcessedPostsRepository) Mark(ctx context.Context, postIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	processed, err := r.load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, id := range postIDs {
		if id == "" {
			continue
		}
		if _, ok := processed[id]; !ok {
			processed[id] = now
		}
	}

	data, err := json.MarshalIndent(processed, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *fileProcessedPostsRepository) load() (map[string]time.Time, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]time.Time), nil
		}
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to read processed posts file: %w", err)
	}

	processed := make(map[string]time.Time)
	if err := json.Unmarshal(data, &processed); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to parse processed posts file: %w", err)
	}
	return processed, nil
}
