package model

// QuietHours is a daily window during which reminders must not fire.
// The window may wrap midnight: StartHour > EndHour means it spans 00:00.
type QuietHours struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
}

// Contains reports whether the given hour falls inside the window.
func (q QuietHours) Contains(hour int) bool {
	if !q.Enabled {
		return false
	}
	if q.StartHour > q.EndHour {
		return hour >= q.StartHour || hour < q.EndHour
	}
	return hour >= q.StartHour && hour < q.EndHour
}

// SmartReminder is the alternate-cadence reminder with its own interval.
type SmartReminder struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// DailySummary configures the once-a-day summary notification.
type DailySummary struct {
	Enabled bool `json:"enabled"`
	Hour    int  `json:"hour"`
}

// WeeklyReport configures the once-a-week report notification.
// Weekday follows time.Weekday numbering: 0 = Sunday.
type WeeklyReport struct {
	Enabled bool `json:"enabled"`
	Weekday int  `json:"weekday"`
	Hour    int  `json:"hour"`
}

// NotificationPreferences is the single per-user record driving the
// reminder scheduler. Any field change requires a scheduler resync.
type NotificationPreferences struct {
	RemindersEnabled bool          `json:"reminders_enabled"`
	IntervalMinutes  int           `json:"interval_minutes"`
	QuietHours       QuietHours    `json:"quiet_hours"`
	SmartReminder    SmartReminder `json:"smart_reminder"`
	DailySummary     DailySummary  `json:"daily_summary"`
	WeeklyReport     WeeklyReport  `json:"weekly_report"`
}

// DefaultPreferences returns preferences used when no record exists yet.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		RemindersEnabled: true,
		IntervalMinutes:  120,
		QuietHours:       QuietHours{Enabled: true, StartHour: 22, EndHour: 7},
		SmartReminder:    SmartReminder{Enabled: false, IntervalMinutes: 90},
		DailySummary:     DailySummary{Enabled: true, Hour: 21},
		WeeklyReport:     WeeklyReport{Enabled: false, Weekday: 0, Hour: 10},
	}
}
