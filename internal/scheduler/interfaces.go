package scheduler

import (
	"context"
	"time"
)

// Kind identifies one independently scheduled notification stream.
type Kind string

const (
	KindSpacedReminder Kind = "spaced_reminder"
	KindSmartReminder  Kind = "smart_reminder"
	KindDailySummary   Kind = "daily_summary"
	KindWeeklyReport   Kind = "weekly_report"
)

// Kinds lists every stream the scheduler owns.
var Kinds = []Kind{KindSpacedReminder, KindSmartReminder, KindDailySummary, KindWeeklyReport}

// Recurrence describes how a scheduled notification repeats.
type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

// Notification is the payload handed to the platform. Title and body are
// locale keys resolved by the presentation layer, never raw strings.
type Notification struct {
	Kind       Kind
	TitleKey   string
	BodyKey    string
	FireAt     time.Time
	Recurrence Recurrence

	// FireTimes carries the explicit future instants for interval-based
	// reminders (quiet hours already excluded). Empty for recurring kinds.
	FireTimes []time.Time
}

// Notifier is the injected platform notification capability. The core
// never touches platform bridging code directly; tests use an in-memory
// implementation.
type Notifier interface {
	// RequestPermission asks the platform for notification permission.
	RequestPermission(ctx context.Context) (bool, error)

	// Schedule registers a notification and returns its platform identifier.
	Schedule(ctx context.Context, n Notification) (string, error)

	// Cancel removes a previously scheduled notification.
	Cancel(ctx context.Context, id string) error

	// CancelAll removes every notification scheduled by this app.
	CancelAll(ctx context.Context) error
}
