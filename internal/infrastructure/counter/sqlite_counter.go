// Package counter provides the durable trigger counter backing audit cadence.
package counter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/errs"
	"symptomminder/internal/infrastructure/persistence/sqlite/model"
	"symptomminder/internal/ports"
)

// CounterKey is the fixed name of the shared counter row.
const CounterKey = "global_counter"

type SQLiteCounter struct {
	db *gorm.DB
}

var _ ports.TriggerCounter = (*SQLiteCounter)(nil)

func NewSQLiteCounter(db *gorm.DB) *SQLiteCounter {
	return &SQLiteCounter{db: db}
}

// Read returns the stored value, or 0 if the counter has never been written.
func (c *SQLiteCounter) Read(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	var row model.CounterKV
	if err := c.db.WithContext(ctx).Where("key = ?", CounterKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, errs.Wrap(err, "query counter")
	}
	return row.Value, nil
}

// Increment bumps the counter in a single upsert and returns the new value,
// so sequential-and-concurrent callers each see a distinct exact count.
// Any storage failure is swallowed and reported as 0 so the save path is
// never blocked by the audit gate.
func (c *SQLiteCounter) Increment(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}

	var next int64
	err := c.db.WithContext(ctx).Raw(
		`INSERT INTO counter_kv (key, value, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT(key) DO UPDATE SET value = counter_kv.value + 1, updated_at = excluded.updated_at
		 RETURNING value`,
		CounterKey,
		time.Now().UTC().Format(time.RFC3339Nano),
	).Scan(&next).Error
	if err != nil {
		logging.Warn(ctx, "trigger counter increment failed, skipping this cycle", slog.Any("err", errs.Loggable(err)))
		return 0
	}
	return next
}

// Reset zeroes the counter. Maintenance tooling only.
func (c *SQLiteCounter) Reset(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	err := c.db.WithContext(ctx).Exec(
		`INSERT INTO counter_kv (key, value, updated_at) VALUES (?, 0, ?)
		 ON CONFLICT(key) DO UPDATE SET value = 0, updated_at = excluded.updated_at`,
		CounterKey,
		time.Now().UTC().Format(time.RFC3339Nano),
	).Error
	if err != nil {
		return errs.Wrap(err, "reset counter")
	}
	return nil
}
