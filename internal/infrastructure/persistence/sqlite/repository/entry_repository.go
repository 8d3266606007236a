package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
	"symptomminder/internal/infrastructure/persistence/sqlite/model"
	"symptomminder/internal/ports"
)

const defaultSearchLimit = 20

type EntryRepository struct {
	db *gorm.DB
}

var _ ports.EntryRepository = (*EntryRepository)(nil)

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Index(ctx context.Context, entry symptom.Entry, id string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	doc, err := json.Marshal(entry)
	if err != nil {
		return "", errs.Wrap(err, "marshal entry document")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	created := now
	if id == "" {
		id = uuid.NewString()
	} else {
		var existing model.Entry
		err := r.db.WithContext(ctx).Where("entry_id = ?", id).Take(&existing).Error
		switch {
		case err == nil:
			created = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Upsert with a caller-chosen id creates the row.
		default:
			return "", errs.Wrap(err, "query existing entry")
		}
	}

	row := model.Entry{
		EntryID:          id,
		UserID:           entry.UserID,
		Timestamp:        entry.Timestamp,
		Symptom:          entry.Details.Symptom,
		Severity:         entry.Details.Severity,
		OnMedication:     entry.Details.OnMedication,
		MediationAttempt: entry.Details.MediationAttempt,
		EventComplete:    entry.Details.EventComplete,
		RawNotes:         entry.Details.RawNotes,
		Doc:              string(doc),
		CreatedAt:        created,
		UpdatedAt:        now,
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return "", errs.Wrap(err, "index entry")
	}

	return id, nil
}

func (r *EntryRepository) Get(ctx context.Context, id string) (symptom.Entry, error) {
	if ctx == nil {
		return symptom.Entry{}, errors.New("context is required")
	}

	var row model.Entry
	if err := r.db.WithContext(ctx).Where("entry_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return symptom.Entry{}, fmt.Errorf("%w: %s", ports.ErrEntryNotFound, id)
		}
		return symptom.Entry{}, errs.Wrap(err, "query entry by id")
	}

	return decodeEntry(row)
}

func (r *EntryRepository) Search(ctx context.Context, q ports.EntrySearch) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	query := r.db.WithContext(ctx).Model(&model.Entry{})
	if s := strings.TrimSpace(q.Symptom); s != "" {
		query = query.Where("symptom LIKE ?", contains(s))
	}
	if q.OnMedication != nil {
		query = query.Where("on_medication = ?", *q.OnMedication)
	}
	if s := strings.TrimSpace(q.MediationAttempt); s != "" {
		query = query.Where("mediation_attempt LIKE ?", contains(s))
	}
	if q.StartTime != "" {
		query = query.Where("timestamp >= ?", q.StartTime)
	}
	if q.EndTime != "" {
		query = query.Where("timestamp <= ?", q.EndTime)
	}
	if s := strings.TrimSpace(q.NotesQuery); s != "" {
		query = query.Where("raw_notes LIKE ?", contains(s))
	}

	return collect(query, normalizeLimit(q.Limit))
}

func (r *EntryRepository) ListRecent(ctx context.Context, limit int) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	return collect(r.db.WithContext(ctx).Model(&model.Entry{}), normalizeLimit(limit))
}

func (r *EntryRepository) ListIncomplete(ctx context.Context, limit int, daysBack int) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	query := r.db.WithContext(ctx).Model(&model.Entry{}).
		Where("event_complete IS NULL OR event_complete = ?", false)
	if daysBack > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -daysBack).Format(time.RFC3339)
		query = query.Where("timestamp >= ?", cutoff)
	}

	return collect(query, normalizeLimit(limit))
}

func (r *EntryRepository) Reset(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Entry{}).Error; err != nil {
		return errs.Wrap(err, "delete entries")
	}
	return nil
}

func collect(query *gorm.DB, limit int) ([]ports.StoredEntry, error) {
	var rows []model.Entry
	if err := query.Order("timestamp desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query entries")
	}

	items := make([]ports.StoredEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := decodeEntry(row)
		if err != nil {
			return nil, err
		}
		items = append(items, ports.StoredEntry{ID: row.EntryID, Entry: entry})
	}
	return items, nil
}

func decodeEntry(row model.Entry) (symptom.Entry, error) {
	var entry symptom.Entry
	if err := json.Unmarshal([]byte(row.Doc), &entry); err != nil {
		return symptom.Entry{}, errs.Wrapf(err, "decode entry document %s", row.EntryID)
	}
	return entry, nil
}

func contains(s string) string {
	return "%" + s + "%"
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	return limit
}
