package model

// AuditReport is the storage row for one jury audit. Panel outputs are kept
// as JSON; the row is append-only.
type AuditReport struct {
	ReportID        string `gorm:"column:report_id;type:text;primaryKey"`
	RecordID        string `gorm:"column:record_id;type:text;not null;index"`
	PromptText      string `gorm:"column:prompt_text;type:text;not null"`
	PanelModelsJSON string `gorm:"column:panel_models_json;type:text;not null"`
	PanelOutputJSON string `gorm:"column:panel_output_json;type:text;not null"`
	SuccessCount    int    `gorm:"column:success_count;not null"`
	FailureCount    int    `gorm:"column:failure_count;not null"`
	AggregatorModel string `gorm:"column:aggregator_model;type:text;not null"`
	AggregateText   string `gorm:"column:aggregate_text;type:text;not null"`
	CreatedAt       string `gorm:"column:created_at;type:text;not null"`
}

func (AuditReport) TableName() string {
	return "audit_reports"
}
