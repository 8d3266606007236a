package ports

import "context"

// PanelOutput is one jury member's outcome, failed or not.
type PanelOutput struct {
	ModelID    string `json:"model_id"`
	ModelLabel string `json:"model_label"`
	Report     string `json:"jury_report"`
	Succeeded  bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// AuditReport is the immutable record of one jury run against a saved entry.
type AuditReport struct {
	RecordID        string        `json:"event_id"`
	PromptText      string        `json:"jury_prompt"`
	PanelModelIDs   []string      `json:"jury_models"`
	PanelOutputs    []PanelOutput `json:"jury_outputs"`
	SuccessCount    int           `json:"successful_models_count"`
	FailureCount    int           `json:"failed_models_count"`
	AggregatorModel string        `json:"jury_aggregation_model"`
	AggregateText   string        `json:"jury_aggregation"`
}

// AuditReportRepository appends audit reports to durable storage. There is
// no update path; reports are correlated to entries by RecordID.
type AuditReportRepository interface {
	Persist(ctx context.Context, report AuditReport) (string, error)
	ListByRecord(ctx context.Context, recordID string) ([]AuditReport, error)
}
