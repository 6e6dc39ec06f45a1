package repositories

import "context"

// ReadSnapshotRunner gives a multi-query read sequence one consistent point-in-time view.
type ReadSnapshotRunner interface {
	// WithReadSnapshot runs fn inside a read-only snapshot. Calls nested inside fn reuse the
	// outer snapshot. The error returned by fn is returned unchanged.
	WithReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
