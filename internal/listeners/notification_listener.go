package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/events"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/internal/services"
	"github.com/basshamut/gruastremart-core-api/pkg/config"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/eventbus"
)

// NotificationListener translates lifecycle events into emails and
// websocket pushes. It runs on the bus, so a broken mail server can
// never fail a lifecycle mutation.
type NotificationListener struct {
	email    services.EmailServiceInterface
	tracking services.LiveTrackingServiceInterface
	userRepo repositories.UserRepositoryInterface
	cfg      config.NotificationConfig
	logger   *zap.Logger
}

func NewNotificationListener(
	email services.EmailServiceInterface,
	tracking services.LiveTrackingServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	cfg config.NotificationConfig,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		email:    email,
		tracking: tracking,
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.DemandCreatedEventName, l.onDemandCreated)
	bus.Subscribe(events.DemandAssignedEventName, l.onDemandAssigned)
	bus.Subscribe(events.DemandStateChangedEventName, l.onDemandStateChanged)
}

func (l *NotificationListener) onDemandCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DemandCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Name())
	}

	if err := l.tracking.BroadcastNewDemand(e.Demand.ID, e.Demand.Description); err != nil {
		l.logger.Warn("broadcasting new demand failed", zap.String("demandID", e.Demand.ID), zap.Error(err))
	}

	return l.email.SendDemandAcknowledgementEmail(ctx, e.Creator.Name, e.Creator.Email)
}

func (l *NotificationListener) onDemandAssigned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DemandAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Name())
	}

	if err := l.tracking.PublishDemandEvent(e.Demand.ID, e.Demand.State, e.Demand.Description); err != nil {
		l.logger.Warn("publishing assignment event failed", zap.String("demandID", e.Demand.ID), zap.Error(err))
	}

	return l.email.SendDemandAssignedEmail(ctx, e.Creator.Name, e.Creator.Email)
}

func (l *NotificationListener) onDemandStateChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DemandStateChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Name())
	}

	if err := l.tracking.PublishDemandEvent(e.Demand.ID, e.Demand.State, e.Demand.Description); err != nil {
		l.logger.Warn("publishing state change failed", zap.String("demandID", e.Demand.ID), zap.Error(err))
	}

	if !l.shouldEmailFor(e.Demand.State) {
		return nil
	}
	// the creator is the one watching the demand, so state mail goes there
	creator, err := l.userRepo.FindByID(ctx, e.Demand.CreatedByUserID)
	if err != nil {
		return fmt.Errorf("resolving demand creator for notification: %w", err)
	}
	return l.email.SendDemandStateChangedEmail(ctx, creator.Name, creator.Email, e.Demand.State)
}

func (l *NotificationListener) shouldEmailFor(state string) bool {
	switch state {
	case constants.DemandStateCancelled:
		return l.cfg.NotifyOnCancel
	case constants.DemandStateCompleted:
		return l.cfg.NotifyOnComplete
	default:
		return false
	}
}
