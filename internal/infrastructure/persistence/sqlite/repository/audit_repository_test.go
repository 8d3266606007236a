package repository

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"symptomminder/internal/infrastructure/persistence/sqlite/model"
	"symptomminder/internal/ports"
)

func setupAuditRepository(t *testing.T) *AuditReportRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "audits.sqlite")
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
	if err := db.AutoMigrate(&model.AuditReport{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewAuditReportRepository(db)
}

func TestPersistAndListByRecord(t *testing.T) {
	repo := setupAuditRepository(t)
	ctx := context.Background()

	report := ports.AuditReport{
		RecordID:      "entry-1",
		PromptText:    "compare these",
		PanelModelIDs: []string{"model-a", "model-b"},
		PanelOutputs: []ports.PanelOutput{
			{ModelID: "model-a", ModelLabel: "Model A", Report: "looks fine", Succeeded: true},
			{ModelID: "model-b", ModelLabel: "Model B", Succeeded: false, Error: "rate limited"},
		},
		SuccessCount:    1,
		FailureCount:    1,
		AggregatorModel: "model-agg",
		AggregateText:   "one of two juries responded",
	}

	id, err := repo.Persist(ctx, report)
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if id == "" {
		t.Fatalf("Persist() returned empty report id")
	}

	if _, err := repo.Persist(ctx, ports.AuditReport{RecordID: "entry-2"}); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	reports, err := repo.ListByRecord(ctx, "entry-1")
	if err != nil {
		t.Fatalf("ListByRecord() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("ListByRecord() len = %d, want 1", len(reports))
	}

	got := reports[0]
	if got.SuccessCount != 1 || got.FailureCount != 1 {
		t.Fatalf("ListByRecord() counts = %d/%d", got.SuccessCount, got.FailureCount)
	}
	if len(got.PanelOutputs) != 2 {
		t.Fatalf("ListByRecord() panel outputs len = %d", len(got.PanelOutputs))
	}
	if got.PanelOutputs[1].Error != "rate limited" || got.PanelOutputs[1].Succeeded {
		t.Fatalf("ListByRecord() failed output = %+v", got.PanelOutputs[1])
	}
	if got.AggregateText != "one of two juries responded" {
		t.Fatalf("ListByRecord() aggregate = %q", got.AggregateText)
	}
}

func TestListByRecordEmpty(t *testing.T) {
	repo := setupAuditRepository(t)

	reports, err := repo.ListByRecord(context.Background(), "none")
	if err != nil {
		t.Fatalf("ListByRecord() error = %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("ListByRecord() len = %d, want 0", len(reports))
	}
}
