package hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnm/sports-booking/internal/model"
)

func testHold(id string, owner uint64) model.Hold {
	return model.Hold{
		ID:        id,
		CourtID:   7,
		Date:      "2025-06-02",
		StartTime: "9:00",
		EndTime:   "10:00",
		OwnerID:   owner,
		PlacedAt:  time.Now().UTC(),
	}
}

func TestMemoryStorePlaceAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Place(ctx, testHold("a", 1), time.Minute))
	require.NoError(t, s.Place(ctx, testHold("b", 2), time.Minute))

	holds, err := s.Get(ctx, 7, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, holds, 2)
	assert.Equal(t, "a", holds[0].ID)
	assert.Equal(t, "b", holds[1].ID)
}

func TestMemoryStorePlaceCoversBothKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Place(ctx, testHold("a", 1), time.Minute))

	// One write, two views: the court-day set and the owner's cart
	// must both carry the hold.
	holds, err := s.Get(ctx, 7, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, holds, 1)

	cart, err := s.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, holds[0].ID, cart[0].ID)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Place(ctx, testHold("a", 1), time.Minute))

	holds, err := s.Get(ctx, 7, "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, holds)

	holds, err = s.Get(ctx, 8, "2025-06-02")
	require.NoError(t, err)
	assert.Empty(t, holds)

	cart, err := s.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Place(ctx, testHold("a", 1), 5*time.Minute))

	// Just before the TTL the hold is still visible.
	now = base.Add(5*time.Minute - time.Second)
	holds, err := s.Get(ctx, 7, "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, holds, 1)

	// At the TTL it is gone without any explicit delete, from the
	// cart as well.
	now = base.Add(5 * time.Minute)
	holds, err = s.Get(ctx, 7, "2025-06-02")
	require.NoError(t, err)
	assert.Empty(t, holds)

	cart, err := s.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestMemoryStoreExpiryIsPerEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Place(ctx, testHold("old", 1), 5*time.Minute))
	now = base.Add(3 * time.Minute)
	require.NoError(t, s.Place(ctx, testHold("new", 2), 5*time.Minute))

	// After the first TTL only the later hold survives.
	now = base.Add(6 * time.Minute)
	holds, err := s.Get(ctx, 7, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "new", holds[0].ID)
}

func TestMemoryStoreCartIsPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Place(ctx, testHold("a", 42), 5*time.Minute))
	require.NoError(t, s.Place(ctx, testHold("b", 43), 5*time.Minute))

	cart, err := s.GetCart(ctx, 42)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "a", cart[0].ID)
}
