package utils

import (
	"sync"
	"time"

	"milk-admin/src/logger"
)

// -----------------------------------------------------------------------------
// DayScheduler detects calendar-day transitions in a fixed location so callers
// can reset daily counters. It has no timer of its own; the sync loop polls it.
// -----------------------------------------------------------------------------

type DayScheduler struct {
	Location *time.Location
	Logger   *logger.Logger
	lastDay  string
	mu       sync.Mutex
}

// -----------------------------------------------------------------------------

func NewDayScheduler(loc *time.Location, l *logger.Logger) *DayScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &DayScheduler{Location: loc, Logger: l}
}

// -----------------------------------------------------------------------------

// DayChanged records now and reports whether its calendar day differs from the
// previous call. The first call only primes the scheduler and returns false.
func (ds *DayScheduler) DayChanged(now time.Time) bool {
	day := now.In(ds.Location).Format("2006-01-02")

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.lastDay == "" {
		ds.lastDay = day
		return false
	}
	if day == ds.lastDay {
		return false
	}

	if ds.Logger != nil {
		ds.Logger.Info("DayScheduler: day boundary %s -> %s", ds.lastDay, day)
	}
	ds.lastDay = day
	return true
}

// -----------------------------------------------------------------------------

// Today returns the current calendar day string.
func (ds *DayScheduler) Today(now time.Time) string {
	return now.In(ds.Location).Format("2006-01-02")
}
