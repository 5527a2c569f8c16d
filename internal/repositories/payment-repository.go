package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/basshamut/gruastremart-core-api/internal/entities"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *entities.Payment) error
	ExistsByDemandID(ctx context.Context, demandID string) (bool, error)
	FindByUser(ctx context.Context, userID, status string, limit, offset uint64) ([]entities.Payment, uint64, error)
}

type PaymentRepository struct {
	storage querier
}

func NewPaymentRepository(storage *pgxpool.Pool) PaymentRepositoryInterface {
	return &PaymentRepository{storage: storage}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO payments (id, demand_id, user_id, mobile_payment_reference, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.DemandID, payment.UserID, payment.MobilePaymentReference,
		payment.Amount, payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("a payment is already registered for this demand")
		}
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ExistsByDemandID(ctx context.Context, demandID string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE demand_id = $1)`, demandID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking payment existence: %w", err)
	}
	return exists, nil
}

func (r *PaymentRepository) FindByUser(ctx context.Context, userID, status string, limit, offset uint64) ([]entities.Payment, uint64, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM payments `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting payments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, demand_id, user_id, mobile_payment_reference, amount, status, created_at, updated_at
		FROM payments %s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	payments := make([]entities.Payment, 0)
	for rows.Next() {
		var p entities.Payment
		if err := rows.Scan(&p.ID, &p.DemandID, &p.UserID, &p.MobilePaymentReference,
			&p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}
