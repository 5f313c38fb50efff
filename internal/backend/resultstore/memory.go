package resultstore

import (
	"sync"
	"time"
)

// MemoryStore keeps the latest result in process memory, guarded by a single mutex
type MemoryStore struct {
	mu           sync.RWMutex
	windows      Windows
	latest       ScanResult
	lastScanTime time.Time
	hasScan      bool
}

// NewMemoryStore creates a store seeded with the initial placeholder result stamped at createdAt
func NewMemoryStore(windows Windows, createdAt time.Time) *MemoryStore {
	return &MemoryStore{
		windows: windows,
		latest: ScanResult{
			Data:      InitialData,
			Timestamp: formatTimestamp(createdAt),
		},
	}
}

func (s *MemoryStore) Latest() ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *MemoryStore) CooldownActive(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cooldownActiveLocked(now)
}

func (s *MemoryStore) Commit(data string, now time.Time) (ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cooldownActiveLocked(now) {
		return s.latest, ErrCooldownActive
	}
	if s.windows.Duplicate > 0 && s.hasScan && data == s.latest.Data && now.Sub(s.lastScanTime) < s.windows.Duplicate {
		return s.latest, ErrDuplicateScan
	}

	s.latest = ScanResult{
		Data:      data,
		Timestamp: formatTimestamp(now),
	}
	s.lastScanTime = now
	s.hasScan = true
	return s.latest, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// cooldownActiveLocked also treats a clock reading earlier than the last commit as inside
// the window, which keeps the stored timestamp from moving backwards.
func (s *MemoryStore) cooldownActiveLocked(now time.Time) bool {
	if !s.hasScan {
		return false
	}
	return now.Sub(s.lastScanTime) < s.windows.Cooldown
}
