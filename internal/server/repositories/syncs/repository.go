// Package syncs records applied cart syncs so a retried merge request with
// the same sync id does not double-increment quantities.
package syncs

import "context"

type Repository interface {
	// TryRecord inserts the (user, sync id) pair. It returns true when the
	// pair was new, false when this sync was already applied.
	TryRecord(ctx context.Context, userID, syncID string) (bool, error)
}
