package tracker

import (
	"context"
	"errors"

	"symptomminder/internal/ports"
)

// Search finds entries matching the flexible-search filters, newest first.
func (s *Service) Search(ctx context.Context, q ports.EntrySearch) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.entries.Search(ctx, q)
}

// Recent returns the most recently recorded entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.entries.ListRecent(ctx, limit)
}

// Incomplete returns entries not yet marked complete, newest first, for
// follow-up conversations. daysBack <= 0 means no cutoff.
func (s *Service) Incomplete(ctx context.Context, limit int, daysBack int) ([]ports.StoredEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.entries.ListIncomplete(ctx, limit, daysBack)
}
