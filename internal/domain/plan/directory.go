package plan

import "context"

// Directory resolves plan identifiers to their read models.
// Implementations return (nil, nil) when the plan does not exist.
type Directory interface {
	GetByID(ctx context.Context, id string) (*Plan, error)
}
