package service

import (
	"sort"
	"sync"
	"time"
)

type slotKey struct {
	year  int
	month time.Month
	day   int
	hour  int
}

// StrategicScheduler hands out posting slots from a fixed daily rotation of
// hours, never returning the same slot twice. It is owned by one run and
// safe for concurrent callers; slot assignment is serialized behind the
// mutex so the no-duplicate invariant holds under the worker pool.
type StrategicScheduler struct {
	mu    sync.Mutex
	hours []int
	loc   *time.Location
	used  map[slotKey]struct{}
	now   func() time.Time
}

func NewStrategicScheduler(hours []int, loc *time.Location) *StrategicScheduler {
	sorted := make([]int, len(hours))
	copy(sorted, hours)
	sort.Ints(sorted)

	if loc == nil {
		loc = time.UTC
	}

	return &StrategicScheduler{
		hours: sorted,
		loc:   loc,
		used:  make(map[slotKey]struct{}),
		now:   time.Now,
	}
}

// NextSlot returns the earliest strategic slot strictly in the future that
// has not been handed out or marked used, and marks it. It scans up to a
// year ahead; past that it falls back to the first hour of the next day so
// a strategic time is always returned.
func (s *StrategicScheduler) NextSlot() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now().In(s.loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)

	for offset := 0; offset < 365; offset++ {
		check := day.AddDate(0, 0, offset)
		for _, hour := range s.hours {
			if offset == 0 && start.Hour() >= hour {
				continue
			}
			key := slotKey{check.Year(), check.Month(), check.Day(), hour}
			if _, taken := s.used[key]; taken {
				continue
			}
			s.used[key] = struct{}{}
			return time.Date(check.Year(), check.Month(), check.Day(), hour, 0, 0, 0, s.loc)
		}
	}

	fallback := day.AddDate(0, 0, 365)
	slot := time.Date(fallback.Year(), fallback.Month(), fallback.Day(), s.hours[0], 0, 0, 0, s.loc)
	s.used[slotKey{slot.Year(), slot.Month(), slot.Day(), slot.Hour()}] = struct{}{}
	return slot
}

// MarkUsed reserves a slot assigned outside this run, e.g. one loaded from
// a previous run's results.
func (s *StrategicScheduler) MarkUsed(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t = t.In(s.loc)
	s.used[slotKey{t.Year(), t.Month(), t.Day(), t.Hour()}] = struct{}{}
}

// UsedSlots returns the reserved slots in chronological order.
func (s *StrategicScheduler) UsedSlots() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]time.Time, 0, len(s.used))
	for key := range s.used {
		slots = append(slots, time.Date(key.year, key.month, key.day, key.hour, 0, 0, 0, s.loc))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}
