package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
	"symptomminder/internal/usecase/tracker"
)

// entryArgs is the caller-facing draft of one symptom event. Description,
// notes, summary and context are alternate free-text fields that feed the
// raw-notes fallback when raw_notes itself is empty.
type entryArgs struct {
	Symptom            string         `json:"symptom" jsonschema:"name of the symptom, e.g. headache"`
	Severity           int            `json:"severity" jsonschema:"severity from 1 (mild) to 10 (worst imaginable)"`
	Timestamp          string         `json:"timestamp" jsonschema:"when the symptom occurred, ISO-8601"`
	LengthMinutes      *int           `json:"length_minutes,omitempty" jsonschema:"duration in minutes, if known"`
	Cause              string         `json:"cause,omitempty" jsonschema:"suspected cause"`
	MediationAttempt   string         `json:"mediation_attempt,omitempty" jsonschema:"remedy attempted, e.g. ibuprofen"`
	OnMedication       *bool          `json:"on_medication,omitempty" jsonschema:"whether the user was on regular medication"`
	RawNotes           string         `json:"raw_notes,omitempty" jsonschema:"free-form notes in the user's own words"`
	Description        string         `json:"description,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	Summary            string         `json:"summary,omitempty"`
	Context            string         `json:"context,omitempty"`
	EventComplete      *bool          `json:"event_complete,omitempty" jsonschema:"whether the symptom has fully resolved"`
	OnsetType          string         `json:"onset_type,omitempty" jsonschema:"sudden or gradual"`
	IntensityPattern   string         `json:"intensity_pattern,omitempty" jsonschema:"constant, intermittent, improving or worsening"`
	AssociatedSymptoms []string       `json:"associated_symptoms,omitempty" jsonschema:"other symptoms occurring at the same time"`
	ReliefFactors      string         `json:"relief_factors,omitempty" jsonschema:"what made it better"`
	Location           string         `json:"location,omitempty" jsonschema:"where the user was"`
	EnvFactors         map[string]any `json:"environmental_factors,omitempty" jsonschema:"conditions such as weather or noise"`
	ActivityContext    string         `json:"activity_context,omitempty" jsonschema:"what the user was doing"`
	Tags               []string       `json:"tags,omitempty"`
	UserID             string         `json:"user_id,omitempty"`
}

func (a entryArgs) input() tracker.EntryInput {
	return tracker.EntryInput{
		Symptom:              a.Symptom,
		Severity:             a.Severity,
		Timestamp:            a.Timestamp,
		LengthMinutes:        a.LengthMinutes,
		Cause:                a.Cause,
		MediationAttempt:     a.MediationAttempt,
		OnMedication:         a.OnMedication,
		RawNotes:             a.RawNotes,
		Description:          a.Description,
		Notes:                a.Notes,
		Summary:              a.Summary,
		Context:              a.Context,
		EventComplete:        a.EventComplete,
		OnsetType:            a.OnsetType,
		IntensityPattern:     a.IntensityPattern,
		AssociatedSymptoms:   a.AssociatedSymptoms,
		ReliefFactors:        a.ReliefFactors,
		Location:             a.Location,
		EnvironmentalFactors: a.EnvFactors,
		ActivityContext:      a.ActivityContext,
		Tags:                 a.Tags,
		UserID:               a.UserID,
	}
}

type reviewResult struct {
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	PromptText string         `json:"prompt_text,omitempty"`
	Entry      *symptom.Entry `json:"entry,omitempty"`
}

type saveResult struct {
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	EventID  string         `json:"event_id,omitempty"`
	Entry    *symptom.Entry `json:"entry,omitempty"`
	AuditRan bool           `json:"audit_ran"`
}

type searchArgs struct {
	Symptom          string `json:"symptom,omitempty" jsonschema:"match on the symptom name"`
	OnMedication     *bool  `json:"on_medication,omitempty" jsonschema:"exact filter on the medication flag"`
	MediationAttempt string `json:"mediation_attempt,omitempty" jsonschema:"match on the remedy attempted"`
	StartTime        string `json:"start_time,omitempty" jsonschema:"inclusive lower bound on the timestamp, ISO-8601"`
	EndTime          string `json:"end_time,omitempty" jsonschema:"inclusive upper bound on the timestamp, ISO-8601"`
	NotesQuery       string `json:"notes_query,omitempty" jsonschema:"fuzzy match against raw notes"`
	Limit            int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 20"`
}

type storedEntry struct {
	EventID string        `json:"event_id"`
	Entry   symptom.Entry `json:"entry"`
}

type listResult struct {
	Status  string        `json:"status"`
	Error   string        `json:"error,omitempty"`
	Count   int           `json:"count"`
	Results []storedEntry `json:"results"`
}

type incompleteArgs struct {
	Limit    int `json:"limit,omitempty" jsonschema:"maximum number of results, use 1 for follow-up conversations"`
	DaysBack int `json:"days_back,omitempty" jsonschema:"only entries newer than this many days, 0 for no cutoff"`
}

type updateArgs struct {
	EventID         string   `json:"event_id" jsonschema:"id of the entry to update"`
	EventComplete   *bool    `json:"event_complete,omitempty" jsonschema:"set true once the symptom has resolved"`
	ResolutionNotes string   `json:"resolution_notes,omitempty" jsonschema:"follow-up note, appended to raw notes"`
	LengthMinutes   *int     `json:"length_minutes,omitempty" jsonschema:"total duration in minutes"`
	ReliefFactors   *string  `json:"relief_factors,omitempty" jsonschema:"what made it better"`
	Severity        *int     `json:"severity,omitempty" jsonschema:"revised severity from 1 to 10"`
	Tags            []string `json:"tags,omitempty" jsonschema:"replacement tag list"`
}

type updateResult struct {
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
	EventID       string         `json:"event_id,omitempty"`
	ChangedFields []string       `json:"changed_fields,omitempty"`
	Entry         *symptom.Entry `json:"entry,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "review_symptom_entry",
		Description: "Normalize and validate a draft symptom entry and render a review prompt for the user to confirm. Nothing is saved.",
	}, s.reviewSymptomEntry)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "confirm_and_save_symptom_entry",
		Description: "Save a confirmed symptom entry. Call only after the user confirmed the review. Periodically triggers a background quality audit.",
	}, s.confirmAndSaveSymptomEntry)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "flexible_search",
		Description: "Search stored symptom entries by symptom, medication flag, remedy, time range or fuzzy notes text. Newest first.",
	}, s.flexibleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_incomplete_symptoms",
		Description: "List symptom entries not yet marked complete, newest first, with ids for follow-up updates.",
	}, s.getIncompleteSymptoms)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_symptom_entry",
		Description: "Update an existing symptom entry with follow-up information. Only the supplied fields change; resolution notes append to raw notes.",
	}, s.updateSymptomEntry)
}

func (s *Server) reviewSymptomEntry(ctx context.Context, _ *mcp.CallToolRequest, args entryArgs) (*mcp.CallToolResult, reviewResult, error) {
	result, err := s.tracker.Review(ctx, args.input())
	if err != nil {
		return nil, reviewResult{Status: "error", Error: err.Error()}, nil
	}
	return nil, reviewResult{
		Status:     "review",
		PromptText: result.PromptText,
		Entry:      &result.Entry,
	}, nil
}

func (s *Server) confirmAndSaveSymptomEntry(ctx context.Context, _ *mcp.CallToolRequest, args entryArgs) (*mcp.CallToolResult, saveResult, error) {
	result, err := s.tracker.SaveAndAudit(ctx, args.input())
	if err != nil {
		s.logToolError(ctx, "confirm_and_save_symptom_entry", err)
		return nil, saveResult{Status: "error", Error: err.Error()}, nil
	}
	return nil, saveResult{
		Status:   "saved",
		EventID:  result.ID,
		Entry:    &result.Entry,
		AuditRan: result.AuditRan,
	}, nil
}

func (s *Server) flexibleSearch(ctx context.Context, _ *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, listResult, error) {
	items, err := s.tracker.Search(ctx, ports.EntrySearch{
		Symptom:          args.Symptom,
		OnMedication:     args.OnMedication,
		MediationAttempt: args.MediationAttempt,
		StartTime:        args.StartTime,
		EndTime:          args.EndTime,
		NotesQuery:       args.NotesQuery,
		Limit:            args.Limit,
	})
	if err != nil {
		s.logToolError(ctx, "flexible_search", err)
		return nil, listResult{Status: "error", Error: err.Error(), Results: []storedEntry{}}, nil
	}
	return nil, okList(items), nil
}

func (s *Server) getIncompleteSymptoms(ctx context.Context, _ *mcp.CallToolRequest, args incompleteArgs) (*mcp.CallToolResult, listResult, error) {
	items, err := s.tracker.Incomplete(ctx, args.Limit, args.DaysBack)
	if err != nil {
		s.logToolError(ctx, "get_incomplete_symptoms", err)
		return nil, listResult{Status: "error", Error: err.Error(), Results: []storedEntry{}}, nil
	}
	return nil, okList(items), nil
}

func (s *Server) updateSymptomEntry(ctx context.Context, _ *mcp.CallToolRequest, args updateArgs) (*mcp.CallToolResult, updateResult, error) {
	result, err := s.tracker.Update(ctx, tracker.UpdateInput{
		EventID:         args.EventID,
		EventComplete:   args.EventComplete,
		ResolutionNotes: args.ResolutionNotes,
		LengthMinutes:   args.LengthMinutes,
		ReliefFactors:   args.ReliefFactors,
		Severity:        args.Severity,
		Tags:            args.Tags,
	})
	if err != nil {
		s.logToolError(ctx, "update_symptom_entry", err)
		return nil, updateResult{Status: "error", Error: err.Error()}, nil
	}
	return nil, updateResult{
		Status:        "updated",
		EventID:       result.EventID,
		ChangedFields: result.ChangedFields,
		Entry:         &result.Entry,
	}, nil
}

func okList(items []ports.StoredEntry) listResult {
	results := make([]storedEntry, 0, len(items))
	for _, item := range items {
		results = append(results, storedEntry{EventID: item.ID, Entry: item.Entry})
	}
	return listResult{Status: "ok", Count: len(results), Results: results}
}

// Tool failures surface as {status:"error"} results rather than protocol
// errors, so the client model can relay them to the user and retry.
func (s *Server) logToolError(ctx context.Context, tool string, err error) {
	logging.Warn(
		logging.WithAttrs(ctx, slog.String("component", "mcpserver")),
		"tool call failed",
		slog.String("tool", tool),
		slog.Any("err", errs.Loggable(err)),
	)
}
