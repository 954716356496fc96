package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquatrack/internal/model"
	"aquatrack/internal/scheduler"
)

// countingNotifier implements scheduler.Notifier and tracks schedule and
// cancel calls per kind.
type countingNotifier struct {
	nextID    int
	active    map[string]scheduler.Notification
	scheduled map[scheduler.Kind]int
	cancelled map[scheduler.Kind]int
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{
		active:    make(map[string]scheduler.Notification),
		scheduled: make(map[scheduler.Kind]int),
		cancelled: make(map[scheduler.Kind]int),
	}
}

func (c *countingNotifier) RequestPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (c *countingNotifier) Schedule(_ context.Context, n scheduler.Notification) (string, error) {
	c.nextID++
	id := fmt.Sprintf("notif-%d", c.nextID)
	c.active[id] = n
	c.scheduled[n.Kind]++
	return id, nil
}

func (c *countingNotifier) Cancel(_ context.Context, id string) error {
	n, ok := c.active[id]
	if !ok {
		return fmt.Errorf("unknown identifier %s", id)
	}
	delete(c.active, id)
	c.cancelled[n.Kind]++
	return nil
}

func (c *countingNotifier) CancelAll(_ context.Context) error {
	c.active = make(map[string]scheduler.Notification)
	return nil
}

func TestPrefsTrackerNeedsSync(t *testing.T) {
	tracker := &prefsTracker{}
	prefs := model.DefaultPreferences()

	assert.True(t, tracker.needsSync(prefs), "first cycle always syncs")

	tracker.markSynced(prefs)
	assert.False(t, tracker.needsSync(prefs), "unchanged preferences skip the sync")

	changed := prefs
	changed.IntervalMinutes = 45
	assert.True(t, tracker.needsSync(changed), "any field change triggers a resync")

	tracker.markSynced(changed)
	assert.False(t, tracker.needsSync(changed))
}

func TestResyncFasterThanIntervalKeepsReminderPending(t *testing.T) {
	notifier := newCountingNotifier()
	sched := scheduler.New(notifier, zerolog.Nop())
	tracker := &prefsTracker{}
	ctx := context.Background()

	// 120-minute spaced reminder, resynced every 30 minutes for a day.
	prefs := model.DefaultPreferences()
	require.Equal(t, 120, prefs.IntervalMinutes)

	for cycle := 0; cycle < 48; cycle++ {
		if tracker.needsSync(prefs) {
			_, err := sched.Sync(ctx, prefs)
			require.NoError(t, err)
			tracker.markSynced(prefs)
		}
	}

	assert.Equal(t, 1, notifier.scheduled[scheduler.KindSpacedReminder],
		"the spaced reminder must be scheduled once, not churned per cycle")
	assert.Equal(t, 0, notifier.cancelled[scheduler.KindSpacedReminder],
		"the pending reminder must survive every resync cycle")

	id, ok := sched.ActiveID(scheduler.KindSpacedReminder)
	require.True(t, ok)
	n := notifier.active[id]
	require.NotEmpty(t, n.FireTimes, "the surviving reminder still has fire times to come due")
}

func TestResyncAfterPreferenceChangeReschedules(t *testing.T) {
	notifier := newCountingNotifier()
	sched := scheduler.New(notifier, zerolog.Nop())
	tracker := &prefsTracker{}
	ctx := context.Background()

	prefs := model.DefaultPreferences()
	require.True(t, tracker.needsSync(prefs))
	_, err := sched.Sync(ctx, prefs)
	require.NoError(t, err)
	tracker.markSynced(prefs)

	firstID, ok := sched.ActiveID(scheduler.KindSpacedReminder)
	require.True(t, ok)

	prefs.IntervalMinutes = 60
	require.True(t, tracker.needsSync(prefs))
	_, err = sched.Sync(ctx, prefs)
	require.NoError(t, err)
	tracker.markSynced(prefs)

	secondID, ok := sched.ActiveID(scheduler.KindSpacedReminder)
	require.True(t, ok)
	assert.NotEqual(t, firstID, secondID, "a changed interval replaces the identifier")
	assert.Equal(t, 1, notifier.cancelled[scheduler.KindSpacedReminder])
}
