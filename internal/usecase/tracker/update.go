package tracker

import (
	"context"
	"errors"
	"fmt"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
)

// UpdateInput carries a follow-up to an existing entry. Nil pointers mean
// "leave the field alone"; ResolutionNotes appends to raw notes rather than
// replacing them.
type UpdateInput struct {
	EventID         string
	EventComplete   *bool
	ResolutionNotes string
	LengthMinutes   *int
	ReliefFactors   *string
	Severity        *int
	Tags            []string
}

type UpdateResult struct {
	EventID       string
	ChangedFields []string
	Entry         symptom.Entry
}

// Update applies a follow-up with read-modify-write semantics: the stored
// document is fetched, only explicitly supplied fields are overwritten, and
// the whole document is written back. Last writer wins; there is no
// optimistic-concurrency check.
func (s *Service) Update(ctx context.Context, in UpdateInput) (UpdateResult, error) {
	if ctx == nil {
		return UpdateResult{}, errors.New("context is required")
	}
	if in.EventID == "" {
		return UpdateResult{}, errors.New("event id is required")
	}

	entry, err := s.entries.Get(ctx, in.EventID)
	if err != nil {
		return UpdateResult{}, err
	}

	changed := make([]string, 0, 6)
	if in.EventComplete != nil {
		entry.Details.EventComplete = in.EventComplete
		changed = append(changed, symptom.FieldEventComplete)
	}
	if in.Severity != nil {
		if *in.Severity < symptom.SeverityMin || *in.Severity > symptom.SeverityMax {
			return UpdateResult{}, &symptom.ValidationError{Violations: []string{
				fmt.Sprintf("%s.%s must be between %d and %d",
					symptom.FieldDetails, symptom.FieldSeverity, symptom.SeverityMin, symptom.SeverityMax),
			}}
		}
		entry.Details.Severity = *in.Severity
		changed = append(changed, symptom.FieldSeverity)
	}
	if in.LengthMinutes != nil {
		if *in.LengthMinutes < 0 {
			return UpdateResult{}, &symptom.ValidationError{Violations: []string{
				fmt.Sprintf("%s.%s must not be negative", symptom.FieldDetails, symptom.FieldLengthMinutes),
			}}
		}
		entry.Details.LengthMinutes = in.LengthMinutes
		changed = append(changed, symptom.FieldLengthMinutes)
	}
	if in.ReliefFactors != nil {
		entry.Details.ReliefFactors = *in.ReliefFactors
		changed = append(changed, symptom.FieldReliefFactors)
	}
	if in.ResolutionNotes != "" {
		entry.Details.RawNotes = symptom.AppendFollowUp(entry.Details.RawNotes, in.ResolutionNotes)
		changed = append(changed, symptom.FieldRawNotes)
	}
	if in.Tags != nil {
		entry.Tags = in.Tags
		changed = append(changed, symptom.FieldTags)
	}

	if _, err := s.entries.Index(ctx, entry, in.EventID); err != nil {
		return UpdateResult{}, errs.Wrap(err, "persist updated entry")
	}

	return UpdateResult{
		EventID:       in.EventID,
		ChangedFields: changed,
		Entry:         entry,
	}, nil
}

// Entry fetches one stored entry by id.
func (s *Service) Entry(ctx context.Context, id string) (symptom.Entry, error) {
	if ctx == nil {
		return symptom.Entry{}, errors.New("context is required")
	}
	return s.entries.Get(ctx, id)
}

// ResetEntries drops every stored entry. Used by seed --reset only.
func (s *Service) ResetEntries(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	return s.entries.Reset(ctx)
}
