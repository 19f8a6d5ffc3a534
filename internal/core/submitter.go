package core

import "context"

// Submitter sends an accepted batch to the system of record and returns the
// identifier it assigned. Implementations must not modify batch.
type Submitter interface {
	Submit(ctx context.Context, batch []PolicyRecord) (int64, error)
}

// SubmitterFunc adapts a plain function to Submitter.
type SubmitterFunc func(ctx context.Context, batch []PolicyRecord) (int64, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, batch []PolicyRecord) (int64, error) {
	return f(ctx, batch)
}
