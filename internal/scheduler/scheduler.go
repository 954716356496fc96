package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aquatrack/internal/metrics"
	"aquatrack/internal/model"
)

// Locale keys carried in notification payloads.
const (
	titleKeySpaced  = "notif.reminder.title"
	bodyKeySpaced   = "notif.reminder.body"
	titleKeySmart   = "notif.smart.title"
	bodyKeySmart    = "notif.smart.body"
	titleKeySummary = "notif.summary.title"
	bodyKeySummary  = "notif.summary.body"
	titleKeyReport  = "notif.report.title"
	bodyKeyReport   = "notif.report.body"
)

// defaultHorizon bounds how far ahead interval fire times are computed.
// The next sync extends the schedule past it.
const defaultHorizon = 24 * time.Hour

// Scheduler owns the lifecycle of every locally scheduled notification.
// Each kind is independently Unscheduled or Scheduled; at most one live
// platform identifier exists per kind, and a resync always cancels the
// prior identifier before creating a new one.
type Scheduler struct {
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
	horizon  time.Duration

	mu      sync.Mutex
	ids     map[Kind]string
	asked   bool
	granted bool
}

// New creates a scheduler over the injected notification capability.
func New(notifier Notifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		horizon:  defaultHorizon,
		ids:      make(map[Kind]string),
	}
}

// Sync brings the platform schedule in line with prefs. Idempotent:
// repeated calls with identical input leave exactly one identifier per
// enabled kind. The returned bool is whether notification permission is
// granted; denial is not an error, it leaves every kind Unscheduled.
func (s *Scheduler) Sync(ctx context.Context, prefs model.NotificationPreferences) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	granted, err := s.ensurePermission(ctx)
	if err != nil {
		return false, err
	}
	if !granted {
		return false, s.cancelAllLocked(ctx)
	}

	now := s.now()

	if err := s.syncKind(ctx, KindSpacedReminder,
		prefs.RemindersEnabled && prefs.IntervalMinutes > 0,
		func() (Notification, bool) {
			return s.intervalNotification(KindSpacedReminder, titleKeySpaced, bodyKeySpaced,
				now, prefs.IntervalMinutes, prefs.QuietHours)
		}); err != nil {
		return true, err
	}

	if err := s.syncKind(ctx, KindSmartReminder,
		prefs.RemindersEnabled && prefs.SmartReminder.Enabled && prefs.SmartReminder.IntervalMinutes > 0,
		func() (Notification, bool) {
			return s.intervalNotification(KindSmartReminder, titleKeySmart, bodyKeySmart,
				now, prefs.SmartReminder.IntervalMinutes, prefs.QuietHours)
		}); err != nil {
		return true, err
	}

	if err := s.syncKind(ctx, KindDailySummary,
		prefs.RemindersEnabled && prefs.DailySummary.Enabled,
		func() (Notification, bool) {
			return Notification{
				Kind:       KindDailySummary,
				TitleKey:   titleKeySummary,
				BodyKey:    bodyKeySummary,
				FireAt:     nextDaily(now, prefs.DailySummary.Hour),
				Recurrence: RecurrenceDaily,
			}, true
		}); err != nil {
		return true, err
	}

	if err := s.syncKind(ctx, KindWeeklyReport,
		prefs.RemindersEnabled && prefs.WeeklyReport.Enabled,
		func() (Notification, bool) {
			return Notification{
				Kind:       KindWeeklyReport,
				TitleKey:   titleKeyReport,
				BodyKey:    bodyKeyReport,
				FireAt:     nextWeekly(now, time.Weekday(prefs.WeeklyReport.Weekday), prefs.WeeklyReport.Hour),
				Recurrence: RecurrenceWeekly,
			}, true
		}); err != nil {
		return true, err
	}

	return true, nil
}

// ensurePermission requests notification permission once. Denial is
// remembered and reported as a boolean, never as an error.
func (s *Scheduler) ensurePermission(ctx context.Context) (bool, error) {
	if s.asked {
		return s.granted, nil
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("permission request failed, treating as denied")
		granted = false
	}

	s.asked = true
	s.granted = granted
	if !granted {
		s.logger.Info().Msg("notification permission denied, leaving all kinds unscheduled")
	}
	return granted, nil
}

// syncKind cancels the kind's current identifier, then schedules a fresh
// one when the kind is enabled and has something to fire. Cancellation
// strictly precedes creation for the same kind.
func (s *Scheduler) syncKind(ctx context.Context, kind Kind, enabled bool, build func() (Notification, bool)) error {
	if id, ok := s.ids[kind]; ok {
		if err := s.notifier.Cancel(ctx, id); err != nil {
			return fmt.Errorf("cancel %s: %w", kind, err)
		}
		delete(s.ids, kind)
		metrics.IncCancelled(string(kind))
	}

	if !enabled {
		return nil
	}

	n, ok := build()
	if !ok {
		s.logger.Debug().Str("kind", string(kind)).Msg("no eligible fire times this cycle")
		return nil
	}

	id, err := s.notifier.Schedule(ctx, n)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", kind, err)
	}
	s.ids[kind] = id
	metrics.IncScheduled(string(kind))

	s.logger.Debug().
		Str("kind", string(kind)).
		Str("id", id).
		Time("fire_at", n.FireAt).
		Msg("notification scheduled")
	return nil
}

// intervalNotification builds the payload for an interval-based reminder.
// Returns false when every instant in the horizon falls in quiet hours.
func (s *Scheduler) intervalNotification(kind Kind, titleKey, bodyKey string, now time.Time, intervalMinutes int, quiet model.QuietHours) (Notification, bool) {
	times := fireTimes(now, time.Duration(intervalMinutes)*time.Minute, s.horizon, quiet)
	if len(times) == 0 {
		return Notification{}, false
	}
	return Notification{
		Kind:       kind,
		TitleKey:   titleKey,
		BodyKey:    bodyKey,
		FireAt:     times[0],
		Recurrence: RecurrenceNone,
		FireTimes:  times,
	}, true
}

// CancelAll removes every tracked identifier and resets all kinds to
// Unscheduled. Used when the user disables notifications entirely.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelAllLocked(ctx)
}

func (s *Scheduler) cancelAllLocked(ctx context.Context) error {
	if len(s.ids) == 0 {
		return nil
	}
	if err := s.notifier.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancel all: %w", err)
	}
	for kind := range s.ids {
		metrics.IncCancelled(string(kind))
	}
	s.ids = make(map[Kind]string)
	return nil
}

// ActiveID returns the live identifier for a kind, if any.
func (s *Scheduler) ActiveID(kind Kind) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ids[kind]
	return id, ok
}

// ActiveCount returns how many kinds are currently Scheduled.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// PermissionGranted reports the last known permission state.
func (s *Scheduler) PermissionGranted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asked && s.granted
}
