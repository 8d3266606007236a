package ports

import (
	"context"
	"errors"

	"symptomminder/internal/domain/symptom"
)

var ErrEntryNotFound = errors.New("symptom entry not found")

// StoredEntry pairs an entry with its store-assigned id.
type StoredEntry struct {
	ID    string
	Entry symptom.Entry
}

// EntrySearch mirrors the flexible-search filters. Zero values mean
// "not filtered". Time bounds are RFC 3339 strings compared against the
// entry timestamp.
type EntrySearch struct {
	Symptom          string
	OnMedication     *bool
	MediationAttempt string
	StartTime        string
	EndTime          string
	NotesQuery       string
	Limit            int
}

type EntryRepository interface {
	// Index persists an entry. An empty id creates a new document and
	// returns its assigned id; a non-empty id overwrites that document.
	Index(ctx context.Context, entry symptom.Entry, id string) (string, error)

	Get(ctx context.Context, id string) (symptom.Entry, error)

	// Search returns matching entries newest first.
	Search(ctx context.Context, q EntrySearch) ([]StoredEntry, error)

	// ListRecent returns the most recent entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]StoredEntry, error)

	// ListIncomplete returns entries whose event_complete flag is false or
	// unset, newest first. daysBack <= 0 means no time cutoff.
	ListIncomplete(ctx context.Context, limit int, daysBack int) ([]StoredEntry, error)

	// Reset removes every stored entry. Maintenance tooling only.
	Reset(ctx context.Context) error
}
