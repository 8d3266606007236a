package tracker

import (
	"context"
	"errors"
	"log/slog"

	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
)

type ReviewResult struct {
	PromptText string
	Entry      symptom.Entry
}

type SaveResult struct {
	ID       string
	Entry    symptom.Entry
	AuditRan bool
}

// Review normalizes and validates a draft and renders the confirmation
// prompt. Nothing is persisted and no counter moves.
func (s *Service) Review(ctx context.Context, in EntryInput) (ReviewResult, error) {
	if ctx == nil {
		return ReviewResult{}, errors.New("context is required")
	}

	entry, err := in.parse()
	if err != nil {
		return ReviewResult{}, err
	}

	return ReviewResult{
		PromptText: symptom.ReviewPrompt(entry),
		Entry:      entry,
	}, nil
}

// SaveAndAudit persists a confirmed entry and, on every Nth successful save,
// runs the jury pipeline against it. Validation and persistence failures are
// fatal to the call; everything after the save is best-effort, so an audit
// failure never undoes or fails the save.
func (s *Service) SaveAndAudit(ctx context.Context, in EntryInput) (SaveResult, error) {
	if ctx == nil {
		return SaveResult{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.tracker"))

	entry, err := in.parse()
	if err != nil {
		return SaveResult{}, err
	}

	id, err := s.entries.Index(ctx, entry, "")
	if err != nil {
		return SaveResult{}, errs.Wrap(err, "persist entry")
	}

	result := SaveResult{ID: id, Entry: entry}
	if s.modulus <= 0 {
		return result, nil
	}

	// Increment reports 0 when the counter is unavailable, which skips the
	// audit for this cycle instead of blocking the save.
	count := s.counter.Increment(logCtx)
	if count <= 0 || count%int64(s.modulus) != 0 {
		return result, nil
	}

	if s.auditor == nil {
		logging.Warn(logCtx, "audit due but no auditor configured", slog.String("entry_id", id))
		return result, nil
	}

	if _, err := s.auditor.Run(logCtx, id, entry.Details.RawNotes, entry); err != nil {
		// Audit tooling must never cause loss on the primary write path.
		logging.Error(logCtx, "audit did not complete", slog.String("entry_id", id), slog.Any("err", errs.Loggable(err)))
		return result, nil
	}

	result.AuditRan = true
	return result, nil
}
