package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"symptomminder/internal/errs"
	"symptomminder/internal/infrastructure/persistence/sqlite/model"
	"symptomminder/internal/ports"
)

type AuditReportRepository struct {
	db *gorm.DB
}

var _ ports.AuditReportRepository = (*AuditReportRepository)(nil)

func NewAuditReportRepository(db *gorm.DB) *AuditReportRepository {
	return &AuditReportRepository{db: db}
}

func (r *AuditReportRepository) Persist(ctx context.Context, report ports.AuditReport) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	models, err := json.Marshal(report.PanelModelIDs)
	if err != nil {
		return "", errs.Wrap(err, "marshal panel models")
	}
	outputs, err := json.Marshal(report.PanelOutputs)
	if err != nil {
		return "", errs.Wrap(err, "marshal panel outputs")
	}

	row := model.AuditReport{
		ReportID:        uuid.NewString(),
		RecordID:        report.RecordID,
		PromptText:      report.PromptText,
		PanelModelsJSON: string(models),
		PanelOutputJSON: string(outputs),
		SuccessCount:    report.SuccessCount,
		FailureCount:    report.FailureCount,
		AggregatorModel: report.AggregatorModel,
		AggregateText:   report.AggregateText,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", errs.Wrap(err, "insert audit report")
	}
	return row.ReportID, nil
}

func (r *AuditReportRepository) ListByRecord(ctx context.Context, recordID string) ([]ports.AuditReport, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []model.AuditReport
	if err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query audit reports")
	}

	reports := make([]ports.AuditReport, 0, len(rows))
	for _, row := range rows {
		report := ports.AuditReport{
			RecordID:        row.RecordID,
			PromptText:      row.PromptText,
			SuccessCount:    row.SuccessCount,
			FailureCount:    row.FailureCount,
			AggregatorModel: row.AggregatorModel,
			AggregateText:   row.AggregateText,
		}
		if err := json.Unmarshal([]byte(row.PanelModelsJSON), &report.PanelModelIDs); err != nil {
			return nil, errs.Wrapf(err, "decode panel models for report %s", row.ReportID)
		}
		if err := json.Unmarshal([]byte(row.PanelOutputJSON), &report.PanelOutputs); err != nil {
			return nil, errs.Wrapf(err, "decode panel outputs for report %s", row.ReportID)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
