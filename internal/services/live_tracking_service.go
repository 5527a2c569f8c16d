package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/websocket"
)

// LiveTrackingServiceInterface publishes demand-scoped payloads to
// websocket subscribers.
type LiveTrackingServiceInterface interface {
	PublishOperatorPosition(demandID string, operatorID string, lat, lng float64, status string, reportedAt time.Time) error
	PublishDemandEvent(demandID, state, description string) error
	BroadcastNewDemand(demandID, description string) error
}

type LiveTrackingService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewLiveTrackingService(hub *websocket.Hub, logger *zap.Logger) LiveTrackingServiceInterface {
	return &LiveTrackingService{hub: hub, logger: logger}
}

func (s *LiveTrackingService) PublishOperatorPosition(demandID, operatorID string, lat, lng float64, status string, reportedAt time.Time) error {
	topic := fmt.Sprintf(constants.TrackingTopicDemand, demandID)
	return s.hub.PublishToTopic(topic, websocket.OperatorPositionPayload{
		OperatorID: operatorID,
		Latitude:   lat,
		Longitude:  lng,
		Status:     status,
		ReportedAt: reportedAt,
	}, "operator_position")
}

func (s *LiveTrackingService) PublishDemandEvent(demandID, state, description string) error {
	topic := fmt.Sprintf(constants.TrackingTopicDemand, demandID)
	return s.hub.PublishToTopic(topic, websocket.DemandEventPayload{
		DemandID:    demandID,
		State:       state,
		Description: description,
	}, "demand_event")
}

// BroadcastNewDemand pushes fresh demands to every connected operator
// client so nearby operators see new work without polling.
func (s *LiveTrackingService) BroadcastNewDemand(demandID, description string) error {
	return s.hub.Broadcast(websocket.DemandEventPayload{
		DemandID:    demandID,
		State:       constants.DemandStateActive,
		Description: description,
	}, "new_demand")
}
