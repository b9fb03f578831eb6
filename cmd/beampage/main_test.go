package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/repository"
	"github.com/maheshrc27/beampage/internal/service"
)

func TestNextAvailableSlotSkipsBookedSlots(t *testing.T) {
	cfg := &config.Config{
		StrategicHours: []int{10, 14, 18},
		ScheduleTZ:     "UTC",
	}
	results := repository.NewFileResultsRepository(filepath.Join(t.TempDir(), "results.json"))

	// What an unseeded scheduler would hand out next.
	unseeded := service.NewStrategicScheduler(cfg.StrategicHours, cfg.Location()).NextSlot()

	preview := nextAvailableSlot(cfg, results)
	assert.Equal(t, unseeded, preview, "empty store yields the unseeded slot")

	booked := &models.WorkflowResult{
		RunID:     "run-1",
		PageName:  "dogs",
		Timestamp: time.Now().UTC(),
		Outcomes: []models.PostOutcome{
			{PostID: "p1", Success: true, Slot: unseeded},
		},
	}
	require.NoError(t, results.Append(context.Background(), booked))

	next := nextAvailableSlot(cfg, results)
	assert.NotEqual(t, unseeded, next, "a stored future slot must not be previewed again")
	assert.True(t, next.After(unseeded))
}
