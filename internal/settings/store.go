package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aquatrack/internal/database"
	"aquatrack/internal/model"
)

// Conceptual key space. One JSON document per key, reads and writes
// atomic per key, no cross-key transactions.
const (
	KeyBaseGoalMl         = "goal.baseMl"
	KeyCupSizeMl          = "cup.sizeMl"
	KeyPreferences        = "notif.preferences"
	KeyProfile            = "profile"
	KeyHealthKitEnabled   = "healthKit.enabled"
	KeyDynamicGoalEnabled = "dynamicGoal.enabled"
	KeyDetoxModeEnabled   = "detox.enabled"
)

const (
	defaultBaseGoalMl = 2000
	defaultCupSizeMl  = 250
)

// Store persists named configuration records and daily intake logs.
type Store struct {
	db *database.DB
}

// NewStore creates a settings store over an open database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// get unmarshals the value for key into out. Returns false when the key
// has never been written, so callers can fall back to defaults.
func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("read setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, string(raw), time.Now())
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// BaseGoalMl returns the configured base goal, or the default when unset.
func (s *Store) BaseGoalMl(ctx context.Context) (int, error) {
	var v int
	ok, err := s.get(ctx, KeyBaseGoalMl, &v)
	if err != nil {
		return 0, err
	}
	if !ok || v <= 0 {
		return defaultBaseGoalMl, nil
	}
	return v, nil
}

func (s *Store) SetBaseGoalMl(ctx context.Context, ml int) error {
	return s.set(ctx, KeyBaseGoalMl, ml)
}

// CupSizeMl returns the configured cup size, or the default when unset.
func (s *Store) CupSizeMl(ctx context.Context) (int, error) {
	var v int
	ok, err := s.get(ctx, KeyCupSizeMl, &v)
	if err != nil {
		return 0, err
	}
	if !ok || v <= 0 {
		return defaultCupSizeMl, nil
	}
	return v, nil
}

func (s *Store) SetCupSizeMl(ctx context.Context, ml int) error {
	return s.set(ctx, KeyCupSizeMl, ml)
}

// Preferences returns the notification preferences record, or defaults
// when no record exists yet.
func (s *Store) Preferences(ctx context.Context) (model.NotificationPreferences, error) {
	var p model.NotificationPreferences
	ok, err := s.get(ctx, KeyPreferences, &p)
	if err != nil {
		return model.NotificationPreferences{}, err
	}
	if !ok {
		return model.DefaultPreferences(), nil
	}
	return p, nil
}

func (s *Store) SetPreferences(ctx context.Context, p model.NotificationPreferences) error {
	return s.set(ctx, KeyPreferences, p)
}

// Profile returns the user profile, or defaults before onboarding.
func (s *Store) Profile(ctx context.Context) (model.UserProfile, error) {
	var p model.UserProfile
	ok, err := s.get(ctx, KeyProfile, &p)
	if err != nil {
		return model.UserProfile{}, err
	}
	if !ok {
		return model.DefaultProfile(), nil
	}
	return p, nil
}

func (s *Store) SetProfile(ctx context.Context, p model.UserProfile) error {
	return s.set(ctx, KeyProfile, p)
}

func (s *Store) boolSetting(ctx context.Context, key string, fallback bool) (bool, error) {
	var v bool
	ok, err := s.get(ctx, key, &v)
	if err != nil {
		return false, err
	}
	if !ok {
		return fallback, nil
	}
	return v, nil
}

func (s *Store) HealthKitEnabled(ctx context.Context) (bool, error) {
	return s.boolSetting(ctx, KeyHealthKitEnabled, false)
}

func (s *Store) SetHealthKitEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, KeyHealthKitEnabled, enabled)
}

func (s *Store) DynamicGoalEnabled(ctx context.Context) (bool, error) {
	return s.boolSetting(ctx, KeyDynamicGoalEnabled, true)
}

func (s *Store) SetDynamicGoalEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, KeyDynamicGoalEnabled, enabled)
}

func (s *Store) DetoxModeEnabled(ctx context.Context) (bool, error) {
	return s.boolSetting(ctx, KeyDetoxModeEnabled, false)
}

func (s *Store) SetDetoxModeEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, KeyDetoxModeEnabled, enabled)
}
