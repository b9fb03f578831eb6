package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maheshrc27/beampage/internal/models"
)

// maxStoredResults caps the results file; older entries are dropped on
// append.
const maxStoredResults = 100

type fileResultsRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileResultsRepository(path string) ResultsRepository {
	return &fileResultsRepository{path: path}
}

func (r *fileResultsRepository) Append(ctx context.Context, results ...*models.WorkflowResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.load()
	if err != nil {
		return err
	}

	existing = append(existing, results...)
	if len(existing) > maxStoredResults {
		existing = existing[len(existing)-maxStoredResults:]
	}

	return r.save(existing)
}

func (r *fileResultsRepository) Recent(ctx context.Context, limit int) ([]*models.WorkflowResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := r.load()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

func (r *fileResultsRepository) FutureSlots(ctx context.Context, now time.Time) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := r.load()
	if err != nil {
		return nil, err
	}

	var slots []time.Time
	for _, result := range results {
		for _, outcome := range result.Outcomes {
			if outcome.Success && outcome.Slot.After(now) {
				slots = append(slots, outcome.Slot)
			}
		}
	}
	return slots, nil
}

func (r *fileResultsRepository) load() ([]*models.WorkflowResult, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results []*models.WorkflowResult
	if err := json.Unmarshal(data, &results); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return results, nil
}

// save writes through a temp file and renames it so readers never see a
// partially written store.
func (r *fileResultsRepository) save(results []*models.WorkflowResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp results file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write results file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), r.path)
}
