package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextSlotDistinctAndMonotonic(t *testing.T) {
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	seen := make(map[time.Time]struct{})
	var prev time.Time
	for i := 0; i < 9; i++ {
		slot := s.NextSlot()
		_, dup := seen[slot]
		require.False(t, dup, "slot %s handed out twice", slot)
		seen[slot] = struct{}{}
		assert.True(t, slot.After(prev), "slots must be increasing")
		prev = slot
	}
}

func TestNextSlotRollsToNextDay(t *testing.T) {
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		slot := s.NextSlot()
		assert.Equal(t, 2, slot.Day())
	}

	// Fourth call: the day's rotation is exhausted, so the next calendar
	// day at the first hour.
	slot := s.NextSlot()
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), slot)
}

func TestNextSlotSkipsPassedHours(t *testing.T) {
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC))

	// 10:00 and 14:00 have passed; 18:00 is the first strictly-future slot.
	slot := s.NextSlot()
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), slot)
}

func TestNextSlotAlwaysStrictlyFuture(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(now)

	for i := 0; i < 6; i++ {
		assert.True(t, s.NextSlot().After(now))
	}
}

func TestMarkUsedBlocksSeededSlots(t *testing.T) {
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	s.MarkUsed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	s.MarkUsed(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))

	slot := s.NextSlot()
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), slot)
}

func TestNextSlotHonorsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Panama")
	require.NoError(t, err)

	s := NewStrategicScheduler([]int{10, 14, 18}, loc)
	s.now = fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, loc))

	slot := s.NextSlot()
	assert.Equal(t, 10, slot.Hour())
	assert.Equal(t, loc.String(), slot.Location().String())
}

func TestUsedSlotsSorted(t *testing.T) {
	s := NewStrategicScheduler([]int{10, 14, 18}, time.UTC)
	s.now = fixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	s.NextSlot()
	s.NextSlot()
	s.NextSlot()

	slots := s.UsedSlots()
	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Before(slots[i]))
	}
}
