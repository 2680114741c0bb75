package history

import "context"

// Repository lists history entries joined with their task names, ordered by
// StartDate ascending.
type Repository interface {
	List(ctx context.Context, tenantID string, filter Filter) ([]Entry, error)
}
