package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/infrastructure/persistence/sqlite/model"
	"symptomminder/internal/ports"
)

func setupEntryRepository(t *testing.T) *EntryRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "entries.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Entry{}, &model.AuditReport{}, &model.CounterKV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewEntryRepository(db)
}

func testEntry(ts, sym string, severity int) symptom.Entry {
	return symptom.Entry{
		Timestamp: ts,
		Details: symptom.Details{
			Symptom:            sym,
			Severity:           severity,
			RawNotes:           "notes for " + sym,
			AssociatedSymptoms: []string{},
		},
	}
}

func TestIndexAssignsIDAndRoundTrips(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	entry := testEntry("2026-08-01T10:00:00Z", "headache", 6)
	id, err := repo.Index(ctx, entry, "")
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if id == "" {
		t.Fatalf("Index() returned empty id")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Details.Symptom != "headache" || got.Details.Severity != 6 {
		t.Fatalf("Get() = %+v", got.Details)
	}
	if got.Details.RawNotes != "notes for headache" {
		t.Fatalf("Get() raw_notes = %q", got.Details.RawNotes)
	}
}

func TestIndexUpsertKeepsID(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	id, err := repo.Index(ctx, testEntry("2026-08-01T10:00:00Z", "headache", 6), "")
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	updated := testEntry("2026-08-01T10:00:00Z", "headache", 3)
	complete := true
	updated.Details.EventComplete = &complete
	gotID, err := repo.Index(ctx, updated, id)
	if err != nil {
		t.Fatalf("Index() upsert error = %v", err)
	}
	if gotID != id {
		t.Fatalf("Index() upsert id = %s, want %s", gotID, id)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Details.Severity != 3 {
		t.Fatalf("Get() severity = %d, want 3", got.Details.Severity)
	}
	if got.Details.EventComplete == nil || !*got.Details.EventComplete {
		t.Fatalf("Get() event_complete = %v", got.Details.EventComplete)
	}
}

func TestGetUnknownID(t *testing.T) {
	repo := setupEntryRepository(t)

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, ports.ErrEntryNotFound) {
		t.Fatalf("Get() error = %v, want ErrEntryNotFound", err)
	}
}

func TestSearchFilters(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	onMeds := true
	offMeds := false

	e1 := testEntry("2026-08-01T10:00:00Z", "migraine", 8)
	e1.Details.OnMedication = &onMeds
	e1.Details.MediationAttempt = "ibuprofen"
	e1.Details.RawNotes = "throbbing pain behind left eye"

	e2 := testEntry("2026-08-03T10:00:00Z", "migraine", 5)
	e2.Details.OnMedication = &offMeds
	e2.Details.RawNotes = "mild aura only"

	e3 := testEntry("2026-08-05T10:00:00Z", "nausea", 4)

	for _, e := range []symptom.Entry{e1, e2, e3} {
		if _, err := repo.Index(ctx, e, ""); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	items, err := repo.Search(ctx, ports.EntrySearch{Symptom: "migraine"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Search(symptom) len = %d, want 2", len(items))
	}

	items, err = repo.Search(ctx, ports.EntrySearch{Symptom: "migraine", OnMedication: &onMeds})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 || items[0].Entry.Details.MediationAttempt != "ibuprofen" {
		t.Fatalf("Search(on_medication) = %+v", items)
	}

	items, err = repo.Search(ctx, ports.EntrySearch{NotesQuery: "aura"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 || items[0].Entry.Details.RawNotes != "mild aura only" {
		t.Fatalf("Search(notes) = %+v", items)
	}

	items, err = repo.Search(ctx, ports.EntrySearch{
		StartTime: "2026-08-02T00:00:00Z",
		EndTime:   "2026-08-04T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 || items[0].Entry.Timestamp != "2026-08-03T10:00:00Z" {
		t.Fatalf("Search(time range) = %+v", items)
	}
}

func TestListRecentNewestFirst(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	stamps := []string{
		"2026-08-01T10:00:00Z",
		"2026-08-03T10:00:00Z",
		"2026-08-02T10:00:00Z",
	}
	for _, ts := range stamps {
		if _, err := repo.Index(ctx, testEntry(ts, "headache", 4), ""); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	items, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListRecent() len = %d, want 2", len(items))
	}
	if items[0].Entry.Timestamp != "2026-08-03T10:00:00Z" || items[1].Entry.Timestamp != "2026-08-02T10:00:00Z" {
		t.Fatalf("ListRecent() order = %s, %s", items[0].Entry.Timestamp, items[1].Entry.Timestamp)
	}
}

func TestListIncomplete(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	now := time.Now().UTC()
	complete := true
	incomplete := false

	open := testEntry(now.Add(-2*time.Hour).Format(time.RFC3339), "headache", 5)
	open.Details.EventComplete = &incomplete

	unmarked := testEntry(now.Add(-4*time.Hour).Format(time.RFC3339), "nausea", 3)

	closed := testEntry(now.Add(-6*time.Hour).Format(time.RFC3339), "fatigue", 2)
	closed.Details.EventComplete = &complete

	stale := testEntry(now.AddDate(0, 0, -30).Format(time.RFC3339), "cough", 4)
	stale.Details.EventComplete = &incomplete

	for _, e := range []symptom.Entry{open, unmarked, closed, stale} {
		if _, err := repo.Index(ctx, e, ""); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	items, err := repo.ListIncomplete(ctx, 10, 7)
	if err != nil {
		t.Fatalf("ListIncomplete() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListIncomplete() len = %d, want 2 (explicit false + unmarked)", len(items))
	}
	for _, item := range items {
		if item.Entry.Details.Symptom == "fatigue" || item.Entry.Details.Symptom == "cough" {
			t.Fatalf("ListIncomplete() returned %s", item.Entry.Details.Symptom)
		}
	}

	items, err = repo.ListIncomplete(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListIncomplete() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("ListIncomplete() without cutoff len = %d, want 3", len(items))
	}
}

func TestReset(t *testing.T) {
	repo := setupEntryRepository(t)
	ctx := context.Background()

	if _, err := repo.Index(ctx, testEntry("2026-08-01T10:00:00Z", "headache", 4), ""); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	items, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("ListRecent() after reset len = %d", len(items))
	}
}
