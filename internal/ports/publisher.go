package ports

import "context"

// AuditPublisher announces completed audits to interested consumers.
// Publishing is best-effort; a failed publish never fails the audit.
type AuditPublisher interface {
	PublishAuditCompleted(ctx context.Context, reportID string, report AuditReport) error
}
