package ports

import (
	"context"
	"fleet-charging-service/internal/domain"
)

// Contract for announcing completed charging runs to other systems.
type RunPublisher interface {
	PublishRun(ctx context.Context, run domain.ChargingRun) error
}
