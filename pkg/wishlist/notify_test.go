package wishlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestNotifier returns a notifier with dismiss delays short enough to
// observe in a test.
func newTestNotifier() *Notifier {
	n := NewNotifier()
	n.SuccessDuration = 30 * time.Millisecond
	n.InfoDuration = 30 * time.Millisecond
	n.WarningDuration = 50 * time.Millisecond
	return n
}

func TestNotifierOrdering(t *testing.T) {
	n := NewNotifier()

	n.Error("first", "")
	n.Error("second", "")
	n.Error("third", "")

	list := n.Notifications()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestNotifierAutoDismiss(t *testing.T) {
	n := newTestNotifier()

	n.Success("done", "")
	require.Len(t, n.Notifications(), 1)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, n.Notifications(), "success should auto-dismiss")
}

func TestNotifierErrorIsSticky(t *testing.T) {
	n := newTestNotifier()

	id := n.Error("broken", "details")
	time.Sleep(100 * time.Millisecond)

	list := n.Notifications()
	require.Len(t, list, 1, "errors never auto-dismiss")
	assert.Equal(t, time.Duration(0), list[0].Duration)

	n.Dismiss(id)
	assert.Empty(t, n.Notifications())
}

func TestNotifierLoadingNotDismissible(t *testing.T) {
	n := newTestNotifier()

	id := n.Loading("importing", "0 of 10")
	n.Dismiss(id)

	require.Len(t, n.Notifications(), 1, "loading entries ignore Dismiss")
}

func TestNotifierUpdateProgress(t *testing.T) {
	n := newTestNotifier()

	id := n.Loading("importing", "0 of 10")
	n.UpdateProgress(id, "5 of 10")

	list := n.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, "5 of 10", list[0].Message)
	assert.Equal(t, NotifyLoading, list[0].Type)
}

func TestNotifierCompleteKeepsIdentityThenDismisses(t *testing.T) {
	n := newTestNotifier()

	n.Error("keeps position", "")
	id := n.Loading("importing", "working")

	n.Complete(id, "imported", "10 books")

	list := n.Notifications()
	require.Len(t, list, 2)
	entry := list[1]
	assert.Equal(t, id, entry.ID, "same identity after transition")
	assert.Equal(t, NotifySuccess, entry.Type)
	assert.Equal(t, "imported", entry.Title)
	assert.True(t, entry.Dismissible)

	time.Sleep(100 * time.Millisecond)
	list = n.Notifications()
	require.Len(t, list, 1, "completed entry auto-dismisses")
	assert.Equal(t, "keeps position", list[0].Title)
}

func TestNotifierFailBecomesStickyError(t *testing.T) {
	n := newTestNotifier()

	id := n.Loading("importing", "working")
	n.Fail(id, "import failed", "disk full")

	time.Sleep(100 * time.Millisecond)

	list := n.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, NotifyError, list[0].Type)
	assert.True(t, list[0].Dismissible)
}

func TestNotifierTransitionOnlyAppliesToLoading(t *testing.T) {
	n := newTestNotifier()

	id := n.Error("broken", "")
	n.Complete(id, "nope", "")

	list := n.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, NotifyError, list[0].Type, "non-loading entries are not transitioned")
}

func TestNotifierSubscribe(t *testing.T) {
	n := newTestNotifier()

	var calls [][]Notification
	unsub := n.Subscribe(func(list []Notification) { calls = append(calls, list) })

	id := n.Error("one", "")
	n.Dismiss(id)

	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 1)
	assert.Empty(t, calls[1])

	unsub()
	n.Info("two", "")
	assert.Len(t, calls, 2, "no calls after unsubscribe")
}
