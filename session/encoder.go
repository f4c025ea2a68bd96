package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotSchemaVersion is the current persisted-snapshot schema. The
// decoder rejects snapshots from a newer schema instead of guessing.
const SnapshotSchemaVersion = 1

// ErrSnapshotCorrupt is returned when a persisted snapshot cannot be
// decoded or fails structural validation.
var ErrSnapshotCorrupt = errors.New("session snapshot corrupt")

// persistedSnapshot is the durable subset of [Session]. Volatile fields
// (status, last error) are intentionally absent — they are re-derived at
// bootstrap.
type persistedSnapshot struct {
	Version      int          `json:"v"`
	User         *UserProfile `json:"user,omitempty"`
	HasWorkspace bool         `json:"hasWorkspace"`
}

// EncodeSnapshot serializes the durable subset of sess.
func EncodeSnapshot(sess Session) (string, error) {
	data, err := json.Marshal(persistedSnapshot{
		Version:      SnapshotSchemaVersion,
		User:         sess.User,
		HasWorkspace: sess.HasWorkspace,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a persisted snapshot. The returned profile may be
// nil when the snapshot predates any authenticated session.
func DecodeSnapshot(raw string) (*UserProfile, bool, error) {
	var snap persistedSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.Version < 1 || snap.Version > SnapshotSchemaVersion {
		return nil, false, fmt.Errorf("%w: unsupported schema %d", ErrSnapshotCorrupt, snap.Version)
	}
	return snap.User, snap.HasWorkspace, nil
}
