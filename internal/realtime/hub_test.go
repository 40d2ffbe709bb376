package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects delivered frames; setting full makes Deliver fail
// the way a saturated client send buffer does.
type recorder struct {
	frames [][]byte
	full   bool
}

func (r *recorder) Deliver(msg []byte) bool {
	if r.full {
		return false
	}
	r.frames = append(r.frames, msg)
	return true
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "court-7-2025-06-02", ChannelName(7, "2025-06-02"))
}

func TestPublishReachesOnlyTheChannel(t *testing.T) {
	hub := NewHub(nil)
	watcher := &recorder{}
	bystander := &recorder{}
	hub.Join(7, "2025-06-02", watcher)
	hub.Join(7, "2025-06-03", bystander)

	require.NoError(t, hub.Publish(7, "2025-06-02", "courtData", map[string]int{"n": 1}))

	require.Len(t, watcher.frames, 1)
	assert.Empty(t, bystander.frames)

	var env Envelope
	require.NoError(t, json.Unmarshal(watcher.frames[0], &env))
	assert.Equal(t, "courtData", env.Event)
	assert.JSONEq(t, `{"n":1}`, string(env.Data))
}

func TestPublishToEmptyChannelIsNoop(t *testing.T) {
	hub := NewHub(nil)
	assert.NoError(t, hub.Publish(9, "2025-06-02", "courtData", "x"))
}

func TestPublishDeliversToEveryMember(t *testing.T) {
	hub := NewHub(nil)
	a := &recorder{}
	b := &recorder{}
	hub.Join(7, "2025-06-02", a)
	hub.Join(7, "2025-06-02", b)

	require.NoError(t, hub.Publish(7, "2025-06-02", "courtData", 1))
	assert.Len(t, a.frames, 1)
	assert.Len(t, b.frames, 1)
}

func TestPublishDropsStuckSubscriber(t *testing.T) {
	hub := NewHub(nil)
	healthy := &recorder{}
	stuck := &recorder{full: true}
	hub.Join(7, "2025-06-02", healthy)
	hub.Join(7, "2025-06-02", stuck)

	require.NoError(t, hub.Publish(7, "2025-06-02", "courtData", 1))
	assert.Len(t, healthy.frames, 1)
	assert.Equal(t, 1, hub.Subscribers(7, "2025-06-02"))

	// The dropped subscriber no longer hears later publishes.
	stuck.full = false
	require.NoError(t, hub.Publish(7, "2025-06-02", "courtData", 2))
	assert.Empty(t, stuck.frames)
	assert.Len(t, healthy.frames, 2)
}

func TestLeaveAndLeaveAll(t *testing.T) {
	hub := NewHub(nil)
	sub := &recorder{}
	hub.Join(7, "2025-06-02", sub)
	hub.Join(7, "2025-06-03", sub)

	hub.Leave(7, "2025-06-02", sub)
	assert.Equal(t, 0, hub.Subscribers(7, "2025-06-02"))
	assert.Equal(t, 1, hub.Subscribers(7, "2025-06-03"))

	hub.LeaveAll(sub)
	assert.Equal(t, 0, hub.Subscribers(7, "2025-06-03"))
}

func TestPublishUnmarshalablePayloadFails(t *testing.T) {
	hub := NewHub(nil)
	sub := &recorder{}
	hub.Join(7, "2025-06-02", sub)

	err := hub.Publish(7, "2025-06-02", "courtData", func() {})
	require.Error(t, err)
	assert.Empty(t, sub.frames)
}
