// Package symptom holds the symptom entry schema, draft normalization and
// validation rules shared by every entry point.
package symptom

import (
	"fmt"
	"strings"
)

// Draft field names as they arrive from callers.
const (
	FieldTimestamp     = "timestamp"
	FieldUserID        = "user_id"
	FieldDetails       = "symptom_details"
	FieldEnvironmental = "environmental"
	FieldTags          = "tags"

	FieldSymptom            = "symptom"
	FieldSeverity           = "severity"
	FieldLengthMinutes      = "length_minutes"
	FieldCause              = "cause"
	FieldMediationAttempt   = "mediation_attempt"
	FieldOnMedication       = "on_medication"
	FieldRawNotes           = "raw_notes"
	FieldEventComplete      = "event_complete"
	FieldOnsetType          = "onset_type"
	FieldIntensityPattern   = "intensity_pattern"
	FieldAssociatedSymptoms = "associated_symptoms"
	FieldReliefFactors      = "relief_factors"

	FieldLocation             = "location"
	FieldEnvironmentalFactors = "environmental_factors"
	FieldActivityContext      = "activity_context"
)

const (
	SeverityMin = 1
	SeverityMax = 10
)

// Details describes one symptom event.
type Details struct {
	Symptom            string   `json:"symptom" jsonschema:"description=Symptom description"`
	Severity           int      `json:"severity" jsonschema:"description=Severity from 1 (light) to 10 (severe),minimum=1,maximum=10"`
	LengthMinutes      *int     `json:"length_minutes,omitempty" jsonschema:"description=Duration of symptom in minutes"`
	Cause              string   `json:"cause,omitempty" jsonschema:"description=Suspected cause of symptom"`
	MediationAttempt   string   `json:"mediation_attempt,omitempty" jsonschema:"description=What was done to mediate the symptom"`
	OnMedication       *bool    `json:"on_medication,omitempty" jsonschema:"description=Whether the user was on medication at the time"`
	RawNotes           string   `json:"raw_notes,omitempty" jsonschema:"description=Raw notes from the user"`
	EventComplete      *bool    `json:"event_complete,omitempty" jsonschema:"description=Whether the recorded event is considered complete"`
	OnsetType          string   `json:"onset_type,omitempty" jsonschema:"description=Onset type: sudden, gradual, recurring"`
	IntensityPattern   string   `json:"intensity_pattern,omitempty" jsonschema:"description=Pattern of symptom intensity over time"`
	AssociatedSymptoms []string `json:"associated_symptoms" jsonschema:"description=Other symptoms present at the same time"`
	ReliefFactors      string   `json:"relief_factors,omitempty" jsonschema:"description=Factors that relieved or worsened the symptom"`
}

// Environmental captures context present during the event.
type Environmental struct {
	Location             string         `json:"location,omitempty" jsonschema:"description=Location where the symptom occurred"`
	EnvironmentalFactors map[string]any `json:"environmental_factors,omitempty" jsonschema:"description=Environmental data at the time (weather, air quality, ...)"`
	ActivityContext      string         `json:"activity_context,omitempty" jsonschema:"description=User activity when the symptom began"`
}

// Entry is one validated symptom event. Timestamps are RFC 3339 strings so
// range queries stay plain lexicographic comparisons in storage.
type Entry struct {
	Timestamp     string         `json:"timestamp" jsonschema:"description=Timestamp of symptom occurrence (RFC 3339)"`
	UserID        string         `json:"user_id,omitempty" jsonschema:"description=Identifier for the user or patient"`
	Details       Details        `json:"symptom_details"`
	Environmental *Environmental `json:"environmental,omitempty"`
	Tags          []string       `json:"tags,omitempty" jsonschema:"description=User or system tags for this entry"`
}

// AppendFollowUp appends a follow-up note without touching the existing raw
// notes text.
func AppendFollowUp(rawNotes string, note string) string {
	note = strings.TrimSpace(note)
	if rawNotes == "" {
		return fmt.Sprintf("Follow-up: %s", note)
	}
	return fmt.Sprintf("%s\n\nFollow-up: %s", rawNotes, note)
}
