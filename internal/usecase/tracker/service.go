// Package tracker orchestrates the symptom entry lifecycle: review, save
// with conditional audit, retrieval and follow-up updates.
package tracker

import (
	"context"

	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/ports"
)

// Auditor runs the jury pipeline for one saved entry.
type Auditor interface {
	Run(ctx context.Context, recordID string, rawNotes string, entry symptom.Entry) (ports.AuditReport, error)
}

type Service struct {
	entries ports.EntryRepository
	counter ports.TriggerCounter
	auditor Auditor

	// modulus gates audits: 0 never audits, N audits every Nth save.
	modulus int
}

func NewService(entries ports.EntryRepository, counter ports.TriggerCounter, auditor Auditor, modulus int) *Service {
	return &Service{
		entries: entries,
		counter: counter,
		auditor: auditor,
		modulus: modulus,
	}
}

// EntryInput is the caller-facing draft of one symptom event, explicit named
// fields rather than an untyped blob. Description, Notes, Summary and
// Context are alternate free-text fields that feed the raw-notes fallback.
type EntryInput struct {
	Symptom            string
	Severity           int
	Timestamp          string
	LengthMinutes      *int
	Cause              string
	MediationAttempt   string
	OnMedication       *bool
	RawNotes           string
	Description        string
	Notes              string
	Summary            string
	Context            string
	EventComplete      *bool
	OnsetType          string
	IntensityPattern   string
	AssociatedSymptoms []string
	ReliefFactors      string

	Location             string
	EnvironmentalFactors map[string]any
	ActivityContext      string

	Tags   []string
	UserID string
}

// draft assembles the untyped mapping the normalizer operates on.
func (in EntryInput) draft() map[string]any {
	details := map[string]any{
		symptom.FieldSymptom:  in.Symptom,
		symptom.FieldSeverity: in.Severity,
	}
	if in.LengthMinutes != nil {
		details[symptom.FieldLengthMinutes] = *in.LengthMinutes
	}
	if in.Cause != "" {
		details[symptom.FieldCause] = in.Cause
	}
	if in.MediationAttempt != "" {
		details[symptom.FieldMediationAttempt] = in.MediationAttempt
	}
	if in.OnMedication != nil {
		details[symptom.FieldOnMedication] = *in.OnMedication
	}
	if in.RawNotes != "" {
		details[symptom.FieldRawNotes] = in.RawNotes
	}
	if in.Description != "" {
		details["description"] = in.Description
	}
	if in.Notes != "" {
		details["notes"] = in.Notes
	}
	if in.Summary != "" {
		details["summary"] = in.Summary
	}
	if in.Context != "" {
		details["context"] = in.Context
	}
	if in.EventComplete != nil {
		details[symptom.FieldEventComplete] = *in.EventComplete
	}
	if in.OnsetType != "" {
		details[symptom.FieldOnsetType] = in.OnsetType
	}
	if in.IntensityPattern != "" {
		details[symptom.FieldIntensityPattern] = in.IntensityPattern
	}
	if in.AssociatedSymptoms != nil {
		details[symptom.FieldAssociatedSymptoms] = in.AssociatedSymptoms
	}
	if in.ReliefFactors != "" {
		details[symptom.FieldReliefFactors] = in.ReliefFactors
	}

	draft := map[string]any{
		symptom.FieldTimestamp: in.Timestamp,
		symptom.FieldDetails:   details,
	}
	if in.UserID != "" {
		draft[symptom.FieldUserID] = in.UserID
	}
	if in.Tags != nil {
		draft[symptom.FieldTags] = in.Tags
	}
	if in.Location != "" || in.EnvironmentalFactors != nil || in.ActivityContext != "" {
		env := map[string]any{}
		if in.Location != "" {
			env[symptom.FieldLocation] = in.Location
		}
		if in.EnvironmentalFactors != nil {
			env[symptom.FieldEnvironmentalFactors] = in.EnvironmentalFactors
		}
		if in.ActivityContext != "" {
			env[symptom.FieldActivityContext] = in.ActivityContext
		}
		draft[symptom.FieldEnvironmental] = env
	}
	return draft
}

// parse runs normalization strictly before validation, the one safe order.
func (in EntryInput) parse() (symptom.Entry, error) {
	return symptom.ParseEntry(symptom.NormalizeDraft(in.draft()))
}
