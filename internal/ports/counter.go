package ports

import "context"

// TriggerCounter is the durable shared counter gating audit cadence.
//
// Increment is atomic at the storage layer, so the cadence fires on exact
// Nth saves even across instances. On storage failure Increment returns 0
// instead of an error so a broken counter can never block a save.
type TriggerCounter interface {
	Read(ctx context.Context) (int64, error)
	Increment(ctx context.Context) int64
	Reset(ctx context.Context) error
}
