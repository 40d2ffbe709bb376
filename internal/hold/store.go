// Package hold stores the ephemeral cart holds that protect court
// slots during checkout.  Every hold carries a TTL and evicts itself;
// nothing in the system deletes holds explicitly.
package hold

import (
	"context"
	"errors"
	"time"

	"github.com/hoangnm/sports-booking/internal/model"
)

// ErrStoreUnavailable wraps transport failures against the backing
// cache. Handlers translate it into a 503: the operation must fail
// loudly rather than proceed without slot-hold protection.
var ErrStoreUnavailable = errors.New("hold store unavailable")

// Store is the contract the availability service and the checkout flow
// depend on.  Get never returns expired entries.  Place must be safe
// against concurrent writers for the same key: two users adding holds
// for the same court-day at the same moment must both survive.
//
// A failed Place must surface to the caller — a hold that was not
// durably written to the cache must not be reported as placed, because
// "slot looks free but is not" is exactly what this store exists to
// prevent.
type Store interface {
	// Get returns the live holds for one court-day.
	Get(ctx context.Context, courtID uint64, date string) ([]model.Hold, error)
	// Place records h under both its court-day key and its owner's
	// cart key in one write, merging with whatever live holds the keys
	// already have.  Both entries land together or the error aborts
	// the request: a hold visible on the court-day but missing from
	// its owner's cart would block a slot the owner can never check
	// out.
	Place(ctx context.Context, h model.Hold, ttl time.Duration) error
	// GetCart returns the live holds in one user's cart.
	GetCart(ctx context.Context, userID uint64) ([]model.Hold, error)
}
