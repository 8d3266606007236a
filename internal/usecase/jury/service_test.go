package jury

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/ports"
)

type fakeCompleter struct {
	complete func(modelID string, maxTokens int, prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, modelID string, maxTokens int, prompt string) (string, error) {
	return f.complete(modelID, maxTokens, prompt)
}

type fakeReportRepo struct {
	persisted []ports.AuditReport
	err       error
}

func (f *fakeReportRepo) Persist(_ context.Context, report ports.AuditReport) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.persisted = append(f.persisted, report)
	return "report-1", nil
}

func (f *fakeReportRepo) ListByRecord(context.Context, string) ([]ports.AuditReport, error) {
	return f.persisted, nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishAuditCompleted(context.Context, string, ports.AuditReport) error {
	f.published++
	return f.err
}

func testEntry() symptom.Entry {
	return symptom.Entry{
		Timestamp: "2026-08-01T10:00:00Z",
		Details: symptom.Details{
			Symptom:            "headache",
			Severity:           7,
			RawNotes:           "sharp pain behind the eyes",
			AssociatedSymptoms: []string{},
		},
	}
}

func threeMemberPanel() Config {
	return Config{
		Panel: []PanelMember{
			{Provider: "anthropic", ModelID: "model-a", Label: "Model A"},
			{Provider: "anthropic", ModelID: "model-b", Label: "Model B"},
			{Provider: "anthropic", ModelID: "model-c", Label: "Model C"},
		},
		Aggregator: PanelMember{Provider: "anthropic", ModelID: "model-agg", Label: "Aggregator"},
	}
}

func TestRunHappyPath(t *testing.T) {
	completer := &fakeCompleter{complete: func(modelID string, maxTokens int, prompt string) (string, error) {
		if modelID == "model-agg" {
			return "| table |", nil
		}
		return "report from " + modelID, nil
	}}
	repo := &fakeReportRepo{}
	pub := &fakePublisher{}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, repo, pub, threeMemberPanel())

	report, err := svc.Run(context.Background(), "entry-1", "sharp pain", testEntry())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.SuccessCount != 3 || report.FailureCount != 0 {
		t.Fatalf("Run() counts = %d/%d", report.SuccessCount, report.FailureCount)
	}
	if report.AggregateText != "| table |" {
		t.Fatalf("Run() aggregate = %q", report.AggregateText)
	}
	if report.RecordID != "entry-1" {
		t.Fatalf("Run() record id = %q", report.RecordID)
	}
	if len(repo.persisted) != 1 {
		t.Fatalf("Run() persisted %d reports", len(repo.persisted))
	}
	if pub.published != 1 {
		t.Fatalf("Run() published %d events", pub.published)
	}
	if !strings.Contains(report.PromptText, "sharp pain") {
		t.Fatalf("Run() prompt missing raw notes: %q", report.PromptText)
	}
}

func TestRunPreservesPanelOrder(t *testing.T) {
	// The first member finishes last; declared order must still hold.
	completer := &fakeCompleter{complete: func(modelID string, maxTokens int, prompt string) (string, error) {
		if modelID == "model-a" {
			time.Sleep(30 * time.Millisecond)
		}
		return "report from " + modelID, nil
	}}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, &fakeReportRepo{}, nil, threeMemberPanel())

	report, err := svc.Run(context.Background(), "entry-1", "notes", testEntry())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, want := range []string{"model-a", "model-b", "model-c"} {
		if report.PanelOutputs[i].ModelID != want {
			t.Fatalf("Run() output[%d] = %q, want %q", i, report.PanelOutputs[i].ModelID, want)
		}
	}
}

func TestRunToleratesPartialPanelFailure(t *testing.T) {
	var aggregationPrompt string
	completer := &fakeCompleter{complete: func(modelID string, maxTokens int, prompt string) (string, error) {
		switch modelID {
		case "model-b":
			return "", errors.New("rate limited")
		case "model-agg":
			aggregationPrompt = prompt
			return "aggregated", nil
		default:
			return "fine", nil
		}
	}}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, &fakeReportRepo{}, nil, threeMemberPanel())

	report, err := svc.Run(context.Background(), "entry-1", "notes", testEntry())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.PanelOutputs) != 3 {
		t.Fatalf("Run() outputs = %d", len(report.PanelOutputs))
	}
	if report.SuccessCount != 2 || report.FailureCount != 1 {
		t.Fatalf("Run() counts = %d/%d", report.SuccessCount, report.FailureCount)
	}

	failed := report.PanelOutputs[1]
	if failed.Succeeded {
		t.Fatalf("Run() output[1] succeeded, want failure")
	}
	if !strings.Contains(failed.Report, "rate limited") {
		t.Fatalf("Run() failed report = %q", failed.Report)
	}

	// The aggregator sees the failed member's error text verbatim.
	if !strings.Contains(aggregationPrompt, "rate limited") {
		t.Fatalf("aggregation prompt missing failed report: %q", aggregationPrompt)
	}
	if !strings.Contains(aggregationPrompt, "Model B") {
		t.Fatalf("aggregation prompt missing member label: %q", aggregationPrompt)
	}
}

func TestRunAllPanelMembersFail(t *testing.T) {
	completer := &fakeCompleter{complete: func(modelID string, maxTokens int, prompt string) (string, error) {
		if modelID == "model-agg" {
			return "nothing usable", nil
		}
		return "", errors.New("unavailable")
	}}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, &fakeReportRepo{}, nil, threeMemberPanel())

	report, err := svc.Run(context.Background(), "entry-1", "notes", testEntry())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.SuccessCount != 0 || report.FailureCount != 3 {
		t.Fatalf("Run() counts = %d/%d", report.SuccessCount, report.FailureCount)
	}
	for i, out := range report.PanelOutputs {
		if out.Succeeded {
			t.Fatalf("Run() output[%d] succeeded, want failure", i)
		}
		if !strings.HasPrefix(out.Report, "Error: ") {
			t.Fatalf("Run() output[%d] report = %q", i, out.Report)
		}
	}
}

func TestRunAggregationFailurePropagates(t *testing.T) {
	completer := &fakeCompleter{complete: func(modelID string, maxTokens int, prompt string) (string, error) {
		if modelID == "model-agg" {
			return "", errors.New("overloaded")
		}
		return "fine", nil
	}}
	repo := &fakeReportRepo{}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, repo, nil, threeMemberPanel())

	_, err := svc.Run(context.Background(), "entry-1", "notes", testEntry())
	if !errors.Is(err, ErrAggregationFailed) {
		t.Fatalf("Run() error = %v, want ErrAggregationFailed", err)
	}
	if len(repo.persisted) != 0 {
		t.Fatalf("Run() persisted %d reports after aggregation failure", len(repo.persisted))
	}
}

func TestRunPublisherFailureIsBestEffort(t *testing.T) {
	completer := &fakeCompleter{complete: func(string, int, string) (string, error) {
		return "ok", nil
	}}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, &fakeReportRepo{}, pub, threeMemberPanel())

	if _, err := svc.Run(context.Background(), "entry-1", "notes", testEntry()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunUnknownProviderIsRecordedFailure(t *testing.T) {
	cfg := threeMemberPanel()
	cfg.Panel[2].Provider = "missing"
	completer := &fakeCompleter{complete: func(string, int, string) (string, error) {
		return "ok", nil
	}}
	svc := NewService(map[string]ports.Completer{"anthropic": completer}, &fakeReportRepo{}, nil, cfg)

	report, err := svc.Run(context.Background(), "entry-1", "notes", testEntry())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.FailureCount != 1 || report.PanelOutputs[2].Succeeded {
		t.Fatalf("Run() outputs = %+v", report.PanelOutputs)
	}
}

func TestBuildComparisonPromptEmbedsEntryJSON(t *testing.T) {
	prompt, err := BuildComparisonPrompt("my notes", testEntry())
	if err != nil {
		t.Fatalf("BuildComparisonPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "my notes") {
		t.Fatalf("prompt missing raw notes: %q", prompt)
	}
	if !strings.Contains(prompt, `"symptom": "headache"`) {
		t.Fatalf("prompt missing serialized entry: %q", prompt)
	}
}
