package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

// OperatorServiceInterface exposes the operator location cache plus the
// live tracking fan-out around it.
type OperatorServiceInterface interface {
	SaveOperatorLocation(ctx context.Context, operatorID string, payload dto.UpdateOperatorLocationDTO) (dto.OperatorLocationDTO, error)
	GetOperatorLocation(ctx context.Context, operatorID string) (dto.OperatorLocationDTO, error)
	IsOperatorLocationCached(ctx context.Context, operatorID string) (bool, error)
}

type OperatorService struct {
	locationCache repositories.OperatorLocationCacheInterface
	demandRepo    repositories.DemandRepositoryInterface
	tracking      LiveTrackingServiceInterface
	logger        *zap.Logger
}

func NewOperatorService(
	locationCache repositories.OperatorLocationCacheInterface,
	demandRepo repositories.DemandRepositoryInterface,
	tracking LiveTrackingServiceInterface,
	logger *zap.Logger,
) OperatorServiceInterface {
	return &OperatorService{
		locationCache: locationCache,
		demandRepo:    demandRepo,
		tracking:      tracking,
		logger:        logger,
	}
}

// SaveOperatorLocation overwrites the cached position for the operator.
// When the operator is on a taken demand, the fresh position is also
// pushed to that demand's tracking topic so the requester's map moves.
func (s *OperatorService) SaveOperatorLocation(ctx context.Context, operatorID string, payload dto.UpdateOperatorLocationDTO) (dto.OperatorLocationDTO, error) {
	status := payload.Status
	if status == "" {
		status = constants.OperatorStatusOnline
	}

	stored, err := s.locationCache.Put(ctx, operatorID, payload.Latitude, payload.Longitude, status)
	if err != nil {
		return dto.OperatorLocationDTO{}, err
	}

	s.pushToActiveDemand(ctx, stored)

	return locationDTOFromStored(stored), nil
}

func (s *OperatorService) GetOperatorLocation(ctx context.Context, operatorID string) (dto.OperatorLocationDTO, error) {
	stored, err := s.locationCache.Get(ctx, operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return dto.OperatorLocationDTO{}, apperrors.NewNotFoundError("operator location not found")
		}
		return dto.OperatorLocationDTO{}, err
	}
	return locationDTOFromStored(stored), nil
}

func (s *OperatorService) IsOperatorLocationCached(ctx context.Context, operatorID string) (bool, error) {
	return s.locationCache.Exists(ctx, operatorID)
}

func (s *OperatorService) pushToActiveDemand(ctx context.Context, stored repositories.StoredLocation) {
	demand, err := s.demandRepo.FindTakenByOperator(ctx, stored.OperatorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("live tracking lookup failed",
				zap.String("operatorID", stored.OperatorID),
				zap.Error(err),
			)
		}
		return
	}

	if err := s.tracking.PublishOperatorPosition(demand.ID, stored.OperatorID,
		stored.Latitude, stored.Longitude, stored.Status, stored.Timestamp); err != nil {
		s.logger.Warn("live tracking publish failed",
			zap.String("demandID", demand.ID),
			zap.Error(err),
		)
	}
}

func locationDTOFromStored(stored repositories.StoredLocation) dto.OperatorLocationDTO {
	return dto.OperatorLocationDTO{
		OperatorID: stored.OperatorID,
		Latitude:   stored.Latitude,
		Longitude:  stored.Longitude,
		Status:     stored.Status,
		Timestamp:  stored.Timestamp,
	}
}
