package repository

import (
	"context"
	"time"

	"github.com/maheshrc27/beampage/internal/models"
)

// ResultsRepository is the durable, append-only store of per-page workflow
// results. Records are never mutated after Append.
type ResultsRepository interface {
	Append(ctx context.Context, results ...*models.WorkflowResult) error
	Recent(ctx context.Context, limit int) ([]*models.WorkflowResult, error)
	// FutureSlots returns slots from previously recorded outcomes that are
	// still ahead of now, so a new run can avoid double-booking them.
	FutureSlots(ctx context.Context, now time.Time) ([]time.Time, error)
}
