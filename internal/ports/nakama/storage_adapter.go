package nakama

import (
	"context"
	"fmt"

	"rummy/internal/domain"
	"rummy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const savedGameCollection = "saved_games"

// NakamaSnapshotStore persists game snapshots in Nakama storage, keyed per
// user so a save is only readable by its owner.
type NakamaSnapshotStore struct {
	nk runtime.NakamaModule
}

// NewNakamaSnapshotStore creates a new snapshot store adapter.
func NewNakamaSnapshotStore(nk runtime.NakamaModule) *NakamaSnapshotStore {
	return &NakamaSnapshotStore{nk: nk}
}

// SaveSnapshot stores the snapshot under the user's save key, replacing any
// previous save with the same key.
func (a *NakamaSnapshotStore) SaveSnapshot(ctx context.Context, userID, saveKey string, snap *domain.Snapshot) error {
	if userID == "" || saveKey == "" {
		return fmt.Errorf("userID and saveKey are required")
	}
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}

	value, err := domain.MarshalSnapshot(*snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      savedGameCollection,
			Key:             saveKey,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a snapshot saved by the user.
func (a *NakamaSnapshotStore) LoadSnapshot(ctx context.Context, userID, saveKey string) (*domain.Snapshot, error) {
	if userID == "" || saveKey == "" {
		return nil, fmt.Errorf("userID and saveKey are required")
	}

	reads := []*runtime.StorageRead{
		{
			Collection: savedGameCollection,
			Key:        saveKey,
			UserID:     userID,
		},
	}
	objects, err := a.nk.StorageRead(ctx, reads)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrSnapshotNotFound
	}

	snap, err := domain.UnmarshalSnapshot([]byte(objects[0].GetValue()))
	if err != nil {
		return nil, fmt.Errorf("stored snapshot is corrupt: %w", err)
	}
	return &snap, nil
}

// DeleteSnapshot removes a stored save. A missing save is not an error.
func (a *NakamaSnapshotStore) DeleteSnapshot(ctx context.Context, userID, saveKey string) error {
	if userID == "" || saveKey == "" {
		return fmt.Errorf("userID and saveKey are required")
	}

	deletes := []*runtime.StorageDelete{
		{
			Collection: savedGameCollection,
			Key:        saveKey,
			UserID:     userID,
		},
	}
	if err := a.nk.StorageDelete(ctx, deletes); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

var _ ports.SnapshotStore = (*NakamaSnapshotStore)(nil)
