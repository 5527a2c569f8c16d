package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/dto"
	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/internal/repositories"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

type PaymentServiceInterface interface {
	RegisterPayment(ctx context.Context, payload dto.RegisterPaymentDTO) (*entities.Payment, error)
	GetPaymentHistory(ctx context.Context, status string, limit, offset uint64) ([]entities.Payment, uint64, error)
}

type PaymentService struct {
	paymentRepo repositories.PaymentRepositoryInterface
	demandRepo  repositories.DemandRepositoryInterface
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepositoryInterface,
	demandRepo repositories.DemandRepositoryInterface,
	logger *zap.Logger,
) PaymentServiceInterface {
	return &PaymentService{
		paymentRepo: paymentRepo,
		demandRepo:  demandRepo,
		logger:      logger,
	}
}

// RegisterPayment records a mobile payment for a completed demand. Only
// COMPLETED demands accept payments, and a demand takes exactly one.
func (s *PaymentService) RegisterPayment(ctx context.Context, payload dto.RegisterPaymentDTO) (*entities.Payment, error) {
	identity, err := utils.GetIdentityFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	demand, err := s.demandRepo.FindByID(ctx, payload.DemandID)
	if err != nil {
		return nil, err
	}
	if demand.State != constants.DemandStateCompleted {
		return nil, apperrors.NewConflictError("payments can only be registered for completed crane demands")
	}

	exists, err := s.paymentRepo.ExistsByDemandID(ctx, demand.ID)
	if err != nil {
		return nil, fmt.Errorf("checking existing payment: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError("a payment is already registered for this demand")
	}

	now := time.Now().UTC()
	payment := &entities.Payment{
		ID:                     uuid.NewString(),
		DemandID:               demand.ID,
		UserID:                 identity.UserID,
		MobilePaymentReference: nullStringFrom(payload.MobilePaymentReference),
		Amount:                 payload.Amount,
		Status:                 constants.PaymentStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.demandRepo.SetPaymentID(ctx, demand.ID, payment.ID, now); err != nil {
		// the payment row exists either way; the link is repairable
		s.logger.Error("linking payment to demand failed",
			zap.String("paymentID", payment.ID),
			zap.String("demandID", demand.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("payment registered",
		zap.String("paymentID", payment.ID),
		zap.String("demandID", demand.ID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// GetPaymentHistory lists the authenticated user's payments, optionally
// filtered by status.
func (s *PaymentService) GetPaymentHistory(ctx context.Context, status string, limit, offset uint64) ([]entities.Payment, uint64, error) {
	identity, err := utils.GetIdentityFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.paymentRepo.FindByUser(ctx, identity.UserID, status, limit, offset)
}
