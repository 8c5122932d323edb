package ports

import (
	"context"
	"fleet-charging-service/internal/domain"
)

// Cache of solved tours keyed by matrix content and origin.
type RouteCache interface {
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	Put(ctx context.Context, key string, route domain.Route) error
}
