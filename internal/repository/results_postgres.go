package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/maheshrc27/beampage/internal/models"
)

type postgresResultsRepository struct {
	db *sql.DB
}

// NewPostgresResultsRepository stores results in a workflow_results table,
// one row per page run, outcomes as JSONB.
func NewPostgresResultsRepository(db *sql.DB) ResultsRepository {
	return &postgresResultsRepository{db: db}
}

func (r *postgresResultsRepository) Append(ctx context.Context, results ...*models.WorkflowResult) error {
	query := `
		INSERT INTO workflow_results (run_id, page_name, created_at, fetch_mode, fetched, ranked, uploaded, published, failed, outcomes, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, result := range results {
		outcomes, err := json.Marshal(result.Outcomes)
		if err != nil {
			return err
		}
		errs, err := json.Marshal(result.Errors)
		if err != nil {
			return err
		}

		_, err = r.db.ExecContext(ctx, query,
			result.RunID, result.PageName, result.Timestamp, result.FetchMode,
			result.Fetched, result.Ranked, result.Uploaded, result.Published,
			result.Failed, outcomes, errs)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	return nil
}

func (r *postgresResultsRepository) Recent(ctx context.Context, limit int) ([]*models.WorkflowResult, error) {
	if limit <= 0 {
		limit = maxStoredResults
	}

	query := `
		SELECT run_id, page_name, created_at, fetch_mode, fetched, ranked, uploaded, published, failed, outcomes, errors
		FROM workflow_results
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var results []*models.WorkflowResult
	for rows.Next() {
		var result models.WorkflowResult
		var outcomes, errs []byte
		err := rows.Scan(&result.RunID, &result.PageName, &result.Timestamp,
			&result.FetchMode, &result.Fetched, &result.Ranked, &result.Uploaded,
			&result.Published, &result.Failed, &outcomes, &errs)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if err := json.Unmarshal(outcomes, &result.Outcomes); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if len(errs) > 0 {
			if err := json.Unmarshal(errs, &result.Errors); err != nil {
				slog.Info(err.Error())
				return nil, err
			}
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Oldest first, matching the file store's ordering.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	return results, nil
}

func (r *postgresResultsRepository) FutureSlots(ctx context.Context, now time.Time) ([]time.Time, error) {
	results, err := r.Recent(ctx, maxStoredResults)
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
