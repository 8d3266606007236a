// Package events publishes audit outcomes for out-of-process consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
)

// AuditCompletedSubject carries one message per persisted audit report.
const AuditCompletedSubject = "symptom.audit.completed"

type NATSPublisher struct {
	conn *nats.Conn
}

var _ ports.AuditPublisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("symptomminder"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}
	return &NATSPublisher{conn: conn}, nil
}

type auditCompletedEvent struct {
	ReportID      string `json:"report_id"`
	RecordID      string `json:"record_id"`
	SuccessCount  int    `json:"success_count"`
	FailureCount  int    `json:"failure_count"`
	AggregateText string `json:"aggregate_text"`
	EmittedAt     string `json:"emitted_at"`
}

func (p *NATSPublisher) PublishAuditCompleted(ctx context.Context, reportID string, report ports.AuditReport) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(auditCompletedEvent{
		ReportID:      reportID,
		RecordID:      report.RecordID,
		SuccessCount:  report.SuccessCount,
		FailureCount:  report.FailureCount,
		AggregateText: report.AggregateText,
		EmittedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return errs.Wrap(err, "marshal audit event")
	}

	if err := p.conn.Publish(AuditCompletedSubject, payload); err != nil {
		return errs.Wrap(err, "publish audit event")
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher stands in when no event broker is configured.
type NoopPublisher struct{}

var _ ports.AuditPublisher = NoopPublisher{}

func (NoopPublisher) PublishAuditCompleted(context.Context, string, ports.AuditReport) error {
	return nil
}
