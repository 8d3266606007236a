// Package jury runs the audit pipeline: a fixed panel of models compares a
// saved entry against the user's raw notes, a second model call aggregates
// the panel's reports, and the result is persisted as an audit report.
package jury

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
)

// ErrAggregationFailed marks the non-isolated failure of the single
// aggregation call. Unlike a panel member failure it fails the whole audit.
var ErrAggregationFailed = errors.New("jury aggregation failed")

// PanelMember identifies one model on the jury.
type PanelMember struct {
	Provider string
	ModelID  string
	Label    string
}

// Config fixes the panel, the aggregator and the per-call token budgets.
type Config struct {
	Panel                []PanelMember
	Aggregator           PanelMember
	MaxPanelTokens       int
	MaxAggregationTokens int
}

type Service struct {
	completers map[string]ports.Completer
	reports    ports.AuditReportRepository
	publisher  ports.AuditPublisher
	cfg        Config
}

func NewService(completers map[string]ports.Completer, reports ports.AuditReportRepository, publisher ports.AuditPublisher, cfg Config) *Service {
	if cfg.MaxPanelTokens <= 0 {
		cfg.MaxPanelTokens = 512
	}
	if cfg.MaxAggregationTokens <= 0 {
		cfg.MaxAggregationTokens = 700
	}
	return &Service{
		completers: completers,
		reports:    reports,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Run executes the full pipeline for one saved entry: dispatch the panel,
// aggregate the reports, persist the audit report, announce it. The entry id
// and raw notes come from the just-persisted record.
func (s *Service) Run(ctx context.Context, recordID string, rawNotes string, entry symptom.Entry) (ports.AuditReport, error) {
	if ctx == nil {
		return ports.AuditReport{}, errors.New("context is required")
	}
	if len(s.cfg.Panel) == 0 {
		return ports.AuditReport{}, errors.New("jury panel is empty")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.jury"),
		slog.String("record_id", recordID),
	)

	prompt, err := BuildComparisonPrompt(rawNotes, entry)
	if err != nil {
		return ports.AuditReport{}, err
	}

	outputs := s.dispatch(logCtx, prompt)

	successes := 0
	for _, out := range outputs {
		if out.Succeeded {
			successes++
		}
	}

	aggregate, err := s.aggregate(logCtx, outputs)
	if err != nil {
		return ports.AuditReport{}, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
	}

	modelIDs := make([]string, 0, len(s.cfg.Panel))
	for _, member := range s.cfg.Panel {
		modelIDs = append(modelIDs, member.ModelID)
	}

	report := ports.AuditReport{
		RecordID:        recordID,
		PromptText:      prompt,
		PanelModelIDs:   modelIDs,
		PanelOutputs:    outputs,
		SuccessCount:    successes,
		FailureCount:    len(outputs) - successes,
		AggregatorModel: s.cfg.Aggregator.ModelID,
		AggregateText:   aggregate,
	}

	reportID, err := s.reports.Persist(ctx, report)
	if err != nil {
		return ports.AuditReport{}, errs.Wrap(err, "persist audit report")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAuditCompleted(ctx, reportID, report); err != nil {
			logging.Warn(logCtx, "audit event publish failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(logCtx, "audit completed",
		slog.String("report_id", reportID),
		slog.Int("panel_successes", successes),
		slog.Int("panel_failures", len(outputs)-successes),
	)
	return report, nil
}

// dispatch fans the comparison prompt out to every panel member at once and
// joins all calls. A member's failure is recorded in its slot with the error
// text substituted for the report; it never aborts or delays the others.
// The returned slice preserves the panel's declared order.
func (s *Service) dispatch(ctx context.Context, prompt string) []ports.PanelOutput {
	outputs := make([]ports.PanelOutput, len(s.cfg.Panel))

	var wg sync.WaitGroup
	for i, member := range s.cfg.Panel {
		wg.Add(1)
		go func(i int, member PanelMember) {
			defer wg.Done()
			outputs[i] = s.callMember(ctx, member, prompt)
		}(i, member)
	}
	wg.Wait()

	return outputs
}

func (s *Service) callMember(ctx context.Context, member PanelMember, prompt string) ports.PanelOutput {
	out := ports.PanelOutput{
		ModelID:    member.ModelID,
		ModelLabel: member.Label,
	}

	completer, ok := s.completers[member.Provider]
	if !ok {
		err := fmt.Errorf("no completer for provider %q", member.Provider)
		logging.Error(ctx, "jury model failed", slog.String("model", member.Label), slog.Any("err", errs.Loggable(err)))
		out.Report = "Error: " + err.Error()
		out.Error = err.Error()
		return out
	}

	text, err := completer.Complete(ctx, member.ModelID, s.cfg.MaxPanelTokens, prompt)
	if err != nil {
		logging.Error(ctx, "jury model failed", slog.String("model", member.Label), slog.Any("err", errs.Loggable(err)))
		out.Report = "Error: " + err.Error()
		out.Error = err.Error()
		return out
	}

	out.Report = text
	out.Succeeded = true
	return out
}

// aggregate runs the single second-stage synthesis call. Its output is
// treated as opaque text, never parsed.
func (s *Service) aggregate(ctx context.Context, outputs []ports.PanelOutput) (string, error) {
	completer, ok := s.completers[s.cfg.Aggregator.Provider]
	if !ok {
		return "", fmt.Errorf("no completer for provider %q", s.cfg.Aggregator.Provider)
	}

	prompt := buildAggregationPrompt(outputs)
	text, err := completer.Complete(ctx, s.cfg.Aggregator.ModelID, s.cfg.MaxAggregationTokens, prompt)
	if err != nil {
		return "", err
	}
	return text, nil
}
