package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aquatrack/internal/model"
)

// UpsertDailyLog creates or overwrites the log for the given day.
func (s *Store) UpsertDailyLog(ctx context.Context, l model.DailyIntakeLog) error {
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_logs (day, total_ml, goal_ml, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			total_ml = excluded.total_ml,
			goal_ml = excluded.goal_ml,
			updated_at = excluded.updated_at`,
		l.Day, l.TotalMl, l.GoalMl, now, now)
	if err != nil {
		return fmt.Errorf("upsert daily log %s: %w", l.Day, err)
	}
	return nil
}

// AddIntake adds ml to the given day's total, creating the row if needed.
// Returns the new total.
func (s *Store) AddIntake(ctx context.Context, day string, ml, goalMl int) (int, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_logs (day, total_ml, goal_ml, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			total_ml = total_ml + excluded.total_ml,
			goal_ml = excluded.goal_ml,
			updated_at = excluded.updated_at`,
		day, ml, goalMl, time.Now(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("add intake %s: %w", day, err)
	}

	l, err := s.DailyLog(ctx, day)
	if err != nil {
		return 0, err
	}
	return l.TotalMl, nil
}

// DailyLog returns the log for one day. A zero log when none exists.
func (s *Store) DailyLog(ctx context.Context, day string) (model.DailyIntakeLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, total_ml, goal_ml FROM daily_logs WHERE day = ?`, day)

	var l model.DailyIntakeLog
	if err := row.Scan(&l.Day, &l.TotalMl, &l.GoalMl); err != nil {
		if err == sql.ErrNoRows {
			return model.DailyIntakeLog{Day: day}, nil
		}
		return model.DailyIntakeLog{}, fmt.Errorf("read daily log %s: %w", day, err)
	}
	return l, nil
}

// DailyLogs returns up to limit most recent logs in ascending day order.
// limit <= 0 returns the full history.
func (s *Store) DailyLogs(ctx context.Context, limit int) ([]model.DailyIntakeLog, error) {
	query := `SELECT day, total_ml, goal_ml FROM daily_logs ORDER BY day DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read daily logs: %w", err)
	}
	defer rows.Close()

	var logs []model.DailyIntakeLog
	for rows.Next() {
		var l model.DailyIntakeLog
		if err := rows.Scan(&l.Day, &l.TotalMl, &l.GoalMl); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to ascending order for the analytics layer.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}
