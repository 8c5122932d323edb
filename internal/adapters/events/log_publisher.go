package events

import (
	"context"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

// LogPublisher writes runs to the log. Used when no message broker is configured.
type LogPublisher struct {
	Logger logrus.FieldLogger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{Logger: logrus.StandardLogger()}
}

func (p *LogPublisher) PublishRun(ctx context.Context, run domain.ChargingRun) error {
	msg := NewRunMessage(run)
	p.Logger.WithFields(logrus.Fields{
		"req_id":    obs.RequestID(ctx),
		"run_id":    msg.RunID,
		"origin_id": msg.OriginID,
		"cost":      msg.RouteCost,
		"route":     msg.RouteDistrictIDs,
		"truck_id":  msg.TruckID,
		"charged":   msg.ChargedVehicleIDs,
		"remaining": msg.RemainingCapacity,
	}).Info("charging run completed")
	return nil
}
