package resultstore

import (
	"fmt"
	"log/slog"
	"time"
)

// NewResultStore creates the store backend named by storeType
func NewResultStore(storeType string, windows Windows, createdAt time.Time) (ResultStore, error) {
	switch storeType {
	case "", "memory":
		slog.Info("result store initialized",
			"type", "memory",
			"cooldown", windows.Cooldown,
			"duplicate_window", windows.Duplicate)
		return NewMemoryStore(windows, createdAt), nil
	default:
		return nil, fmt.Errorf("unsupported result store type: %s", storeType)
	}
}
