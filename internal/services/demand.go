package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/internal/events"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/eventbus"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

// DemandServiceInterface is the crane demand lifecycle manager. Every
// state transition goes through here; repositories only execute
// conditional writes.
type DemandServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateCraneDemandDTO) (*entities.CraneDemand, error)
	GetByID(ctx context.Context, id string) (*entities.CraneDemand, error)
	FindWithFilters(ctx context.Context, filter types.DemandFilter) ([]entities.CraneDemand, uint64, error)
	Assign(ctx context.Context, demandID string, payload dto.AssignCraneDemandDTO) (*entities.CraneDemand, error)
	Cancel(ctx context.Context, demandID string) (*entities.CraneDemand, error)
	Complete(ctx context.Context, demandID string) (*entities.CraneDemand, error)
	Deactivate(ctx context.Context, demandID string) (*entities.CraneDemand, error)
}

type DemandService struct {
	demandRepo    repositories.DemandRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	locationCache repositories.OperatorLocationCacheInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewDemandService(
	demandRepo repositories.DemandRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	locationCache repositories.OperatorLocationCacheInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) DemandServiceInterface {
	return &DemandService{
		demandRepo:    demandRepo,
		userRepo:      userRepo,
		locationCache: locationCache,
		bus:           bus,
		logger:        logger,
	}
}

// Create registers a new ACTIVE demand for the authenticated user. The
// one-open-demand-per-creator rule is checked up front for a friendly
// error, and enforced for real by the partial unique index on insert.
func (s *DemandService) Create(ctx context.Context, payload dto.CreateCraneDemandDTO) (*entities.CraneDemand, error) {
	identity, err := utils.GetIdentityFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	creator, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	open, err := s.demandRepo.FindByCreator(ctx, creator.ID)
	if err != nil {
		return nil, fmt.Errorf("checking open demands for creator: %w", err)
	}
	for i := range open {
		if open[i].IsActiveOrTaken() {
			return nil, apperrors.NewConflictError("user already has an active or taken crane demand")
		}
	}

	now := time.Now().UTC()
	demand := &entities.CraneDemand{
		ID:              uuid.NewString(),
		Description:     payload.Description,
		Origin:          nullStringFrom(payload.Origin),
		CarType:         nullStringFrom(payload.CarType),
		Breakdown:       nullStringFrom(payload.Breakdown),
		ReferenceSource: nullStringFrom(payload.ReferenceSource),
		RecommendedBy:   nullStringFrom(payload.RecommendedBy),
		VehicleBrand:    nullStringFrom(payload.VehicleBrand),
		VehicleModel:    nullStringFrom(payload.VehicleModel),
		VehicleYear:     nullIntFrom(payload.VehicleYear),
		VehiclePlate:    nullStringFrom(payload.VehiclePlate),
		VehicleColor:    nullStringFrom(payload.VehicleColor),
		State:           constants.DemandStateActive,
		CreatedByUserID: creator.ID,

		CurrentLocation:     locationFromDTO(payload.CurrentLocation),
		DestinationLocation: locationFromDTO(payload.DestinationLocation),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.demandRepo.Create(ctx, demand); err != nil {
		return nil, err
	}

	s.logger.Info("crane demand created",
		zap.String("demandID", demand.ID),
		zap.String("creatorID", creator.ID),
	)

	s.bus.Publish(ctx, events.DemandCreatedEvent{Demand: *demand, Creator: *creator})
	return demand, nil
}

func (s *DemandService) GetByID(ctx context.Context, id string) (*entities.CraneDemand, error) {
	return s.demandRepo.FindByID(ctx, id)
}

func (s *DemandService) FindWithFilters(ctx context.Context, filter types.DemandFilter) ([]entities.CraneDemand, uint64, error) {
	return s.demandRepo.FindWithFilters(ctx, filter)
}

// Assign moves an ACTIVE demand to TAKEN on behalf of an operator. The
// transition itself is a single conditional write; racing operators get
// a conflict, not a double assignment.
func (s *DemandService) Assign(ctx context.Context, demandID string, payload dto.AssignCraneDemandDTO) (*entities.CraneDemand, error) {
	if _, ok := constants.WeightCategoryByID(payload.WeightCategoryID); !ok {
		return nil, apperrors.NewValidationError("unknown weight category %q", payload.WeightCategoryID)
	}

	demand, err := s.demandRepo.FindByID(ctx, demandID)
	if err != nil {
		return nil, err
	}
	operator, err := s.userRepo.FindByID(ctx, payload.OperatorUserID)
	if err != nil {
		return nil, err
	}
	creator, err := s.userRepo.FindByID(ctx, demand.CreatedByUserID)
	if err != nil {
		return nil, err
	}

	busy, err := s.demandRepo.OperatorHasTakenDemand(ctx, operator.ID)
	if err != nil {
		return nil, fmt.Errorf("checking operator availability: %w", err)
	}
	if busy {
		return nil, apperrors.NewConflictError("operator already has a taken crane demand")
	}

	updated, err := s.demandRepo.AssignIfActive(ctx, demandID, operator.ID, payload.WeightCategoryID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.seedOperatorLocation(ctx, operator.ID, payload.Latitude, payload.Longitude)

	s.logger.Info("crane demand assigned",
		zap.String("demandID", updated.ID),
		zap.String("operatorID", operator.ID),
		zap.String("weightCategory", payload.WeightCategoryID),
	)

	s.bus.Publish(ctx, events.DemandAssignedEvent{Demand: *updated, Creator: *creator, Operator: *operator})
	return updated, nil
}

// Cancel is allowed from ACTIVE and TAKEN only.
func (s *DemandService) Cancel(ctx context.Context, demandID string) (*entities.CraneDemand, error) {
	return s.transition(ctx, demandID,
		[]string{constants.DemandStateActive, constants.DemandStateTaken},
		constants.DemandStateCancelled)
}

// Complete is the terminal success transition. Only a TAKEN demand can
// complete; completion is what unlocks payment registration.
func (s *DemandService) Complete(ctx context.Context, demandID string) (*entities.CraneDemand, error) {
	return s.transition(ctx, demandID,
		[]string{constants.DemandStateTaken},
		constants.DemandStateCompleted)
}

// Deactivate is the administrative soft delete, reachable from any state.
func (s *DemandService) Deactivate(ctx context.Context, demandID string) (*entities.CraneDemand, error) {
	before, err := s.demandRepo.FindByID(ctx, demandID)
	if err != nil {
		return nil, err
	}

	updated, err := s.demandRepo.Deactivate(ctx, demandID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("crane demand deactivated",
		zap.String("demandID", updated.ID),
		zap.String("previousState", before.State),
	)

	s.bus.Publish(ctx, events.DemandStateChangedEvent{Demand: *updated, PreviousState: before.State})
	return updated, nil
}

func (s *DemandService) transition(ctx context.Context, demandID string, allowedFrom []string, newState string) (*entities.CraneDemand, error) {
	before, err := s.demandRepo.FindByID(ctx, demandID)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransitionDemand(before.State, newState) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("crane demand cannot transition from %s to %s", before.State, newState))
	}

	updated, err := s.demandRepo.UpdateStateIfIn(ctx, demandID, allowedFrom, newState, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("crane demand state changed",
		zap.String("demandID", updated.ID),
		zap.String("from", before.State),
		zap.String("to", newState),
	)

	s.bus.Publish(ctx, events.DemandStateChangedEvent{Demand: *updated, PreviousState: before.State})
	return updated, nil
}

// seedOperatorLocation primes the cache with the coordinates sent on the
// claim, but never stomps a live entry reported by the operator's client.
func (s *DemandService) seedOperatorLocation(ctx context.Context, operatorID string, lat, lng float64) {
	exists, err := s.locationCache.Exists(ctx, operatorID)
	if err != nil {
		s.logger.Warn("location cache check failed", zap.String("operatorID", operatorID), zap.Error(err))
		return
	}
	if exists {
		return
	}
	if _, err := s.locationCache.Put(ctx, operatorID, lat, lng, constants.OperatorStatusAssigned); err != nil {
		s.logger.Warn("location cache seed failed", zap.String("operatorID", operatorID), zap.Error(err))
	}
}

func nullStringFrom(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func nullIntFrom(v int) null.Int {
	if v == 0 {
		return null.Int{}
	}
	return null.IntFrom(v)
}

func locationFromDTO(loc *dto.LocationDTO) *entities.Location {
	if loc == nil {
		return nil
	}
	out := &entities.Location{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Name:      nullStringFrom(loc.Name),
	}
	if loc.Accuracy != nil {
		out.Accuracy = null.Float64From(*loc.Accuracy)
	}
	return out
}
