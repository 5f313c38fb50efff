package resultstore

import (
	"errors"
	"time"
)

// InitialData is reported until the first barcode has been committed
const InitialData = "No barcode scanned yet."

// TimestampLayout is ISO-8601 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrCooldownActive is returned when a commit falls inside the cooldown window of the last commit
	ErrCooldownActive = errors.New("cooldown active")
	// ErrDuplicateScan is returned when the same data is committed again inside the duplicate window
	ErrDuplicateScan = errors.New("barcode already processed recently")
)

// ScanResult is the latest decoded barcode as served to polling clients
type ScanResult struct {
	Data      string `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ResultStore holds the single latest ScanResult together with the cooldown clock
type ResultStore interface {
	// Latest returns the current result without side effects
	Latest() ScanResult
	// CooldownActive reports whether now lies inside the cooldown window of the last commit
	CooldownActive(now time.Time) bool
	// Commit atomically re-checks the cooldown and duplicate windows and, if both allow it,
	// stores data with timestamp now and restarts the cooldown clock.
	Commit(data string, now time.Time) (ScanResult, error)
	Close() error
}

// Windows configures the admission rules of a store
type Windows struct {
	Cooldown time.Duration
	// Duplicate suppresses re-committing the current data; zero disables the check
	Duplicate time.Duration
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
