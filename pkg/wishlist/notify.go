package wishlist

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies notifications for presentation.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
	NotifyLoading NotificationType = "loading"
)

// Notification is one entry in the ordered notification list.
// Duration 0 means sticky: the entry stays until explicitly dismissed.
type Notification struct {
	ID          string
	Type        NotificationType
	Title       string
	Message     string
	Action      func()
	Duration    time.Duration
	Dismissible bool
}

// Notifier keeps an ordered list of notifications and auto-dismisses the
// transient ones. Loading notifications are updated in place so they keep
// their list position when they complete or fail.
type Notifier struct {
	// Dismiss delays per type. Set before first use; errors are always sticky.
	SuccessDuration time.Duration
	InfoDuration    time.Duration
	WarningDuration time.Duration

	mu     sync.Mutex
	list   []*Notification
	timers map[string]*time.Timer
	subs   map[int]func([]Notification)
	nextID int
}

// NewNotifier creates a Notifier with default dismiss delays.
func NewNotifier() *Notifier {
	return &Notifier{
		SuccessDuration: 4 * time.Second,
		InfoDuration:    4 * time.Second,
		WarningDuration: 6 * time.Second,
		timers:          make(map[string]*time.Timer),
		subs:            make(map[int]func([]Notification)),
	}
}

// Success adds an auto-dismissing success notification.
func (n *Notifier) Success(title, message string) string {
	return n.add(NotifySuccess, title, message, nil, n.SuccessDuration, true)
}

// Error adds a sticky error notification requiring explicit dismissal.
func (n *Notifier) Error(title, message string) string {
	return n.add(NotifyError, title, message, nil, 0, true)
}

// Warning adds an auto-dismissing warning notification.
func (n *Notifier) Warning(title, message string) string {
	return n.add(NotifyWarning, title, message, nil, n.WarningDuration, true)
}

// Info adds an auto-dismissing info notification.
func (n *Notifier) Info(title, message string) string {
	return n.add(NotifyInfo, title, message, nil, n.InfoDuration, true)
}

// ErrorWithAction adds a sticky error notification with a retry-style action.
func (n *Notifier) ErrorWithAction(title, message string, action func()) string {
	return n.add(NotifyError, title, message, action, 0, true)
}

// Loading adds a non-dismissible loading notification. Transition it with
// UpdateProgress, Complete, or Fail.
func (n *Notifier) Loading(title, message string) string {
	return n.add(NotifyLoading, title, message, nil, 0, false)
}

// UpdateProgress replaces the message of a loading notification in place.
func (n *Notifier) UpdateProgress(id, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry := n.find(id)
	if entry == nil || entry.Type != NotifyLoading {
		return
	}
	entry.Message = message
	n.notifyLocked()
}

// Complete converts a loading notification into a success one with the same
// identity: the entry keeps its list position, becomes dismissible, and
// auto-dismisses after the success delay.
func (n *Notifier) Complete(id, title, message string) {
	n.transition(id, NotifySuccess, title, message, n.SuccessDuration)
}

// Fail converts a loading notification into a sticky error with the same
// identity.
func (n *Notifier) Fail(id, title, message string) {
	n.transition(id, NotifyError, title, message, 0)
}

// Dismiss removes a notification. Non-dismissible entries are left alone.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry := n.find(id)
	if entry == nil || !entry.Dismissible {
		return
	}
	n.removeLocked(id)
	n.notifyLocked()
}

// Notifications returns a copy of the current list in insertion order.
func (n *Notifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

// Subscribe registers fn for list changes and returns an unsubscribe
// function. fn is invoked synchronously with a snapshot and must not call
// back into the Notifier.
func (n *Notifier) Subscribe(fn func([]Notification)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) add(typ NotificationType, title, message string, action func(), duration time.Duration, dismissible bool) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry := &Notification{
		ID:          uuid.NewString(),
		Type:        typ,
		Title:       title,
		Message:     message,
		Action:      action,
		Duration:    duration,
		Dismissible: dismissible,
	}
	n.list = append(n.list, entry)
	n.scheduleDismissLocked(entry)
	n.notifyLocked()
	return entry.ID
}

func (n *Notifier) transition(id string, typ NotificationType, title, message string, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry := n.find(id)
	if entry == nil || entry.Type != NotifyLoading {
		return
	}

	entry.Type = typ
	entry.Title = title
	entry.Message = message
	entry.Duration = duration
	entry.Dismissible = true
	n.scheduleDismissLocked(entry)
	n.notifyLocked()
}

// scheduleDismissLocked arms the auto-dismiss timer. Callers must hold mu.
func (n *Notifier) scheduleDismissLocked(entry *Notification) {
	if entry.Duration <= 0 {
		return
	}
	id := entry.ID
	n.timers[id] = time.AfterFunc(entry.Duration, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.find(id) == nil {
			return
		}
		n.removeLocked(id)
		n.notifyLocked()
	})
}

func (n *Notifier) find(id string) *Notification {
	for _, entry := range n.list {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (n *Notifier) removeLocked(id string) {
	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, entry := range n.list {
		if entry.ID == id {
			n.list = append(n.list[:i], n.list[i+1:]...)
			return
		}
	}
}

func (n *Notifier) snapshotLocked() []Notification {
	out := make([]Notification, len(n.list))
	for i, entry := range n.list {
		out[i] = *entry
	}
	return out
}

func (n *Notifier) notifyLocked() {
	snapshot := n.snapshotLocked()
	for _, fn := range n.subs {
		fn(snapshot)
	}
}
