package ports

import (
	"context"
	"errors"

	"rummy/internal/domain"
)

// ErrSnapshotNotFound reports a save key with no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists game snapshots for later resumption.
type SnapshotStore interface {
	// SaveSnapshot stores a snapshot under the owner's save key,
	// overwriting any previous save with the same key.
	SaveSnapshot(ctx context.Context, userID, saveKey string, snap *domain.Snapshot) error

	// LoadSnapshot retrieves a snapshot previously stored by the user.
	// Returns ErrSnapshotNotFound when no save exists under the key.
	LoadSnapshot(ctx context.Context, userID, saveKey string) (*domain.Snapshot, error)

	// DeleteSnapshot removes a stored save. Deleting a missing save is
	// not an error.
	DeleteSnapshot(ctx context.Context, userID, saveKey string) error
}
