package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
)

const pgUniqueViolation = "23505"

type DemandRepositoryInterface interface {
	Create(ctx context.Context, demand *entities.CraneDemand) error
	FindByID(ctx context.Context, id string) (*entities.CraneDemand, error)
	FindWithFilters(ctx context.Context, filter types.DemandFilter) ([]entities.CraneDemand, uint64, error)
	FindByCreator(ctx context.Context, creatorUserID string) ([]entities.CraneDemand, error)
	AssignIfActive(ctx context.Context, id, operatorUserID, weightCategoryID string, now time.Time) (*entities.CraneDemand, error)
	UpdateStateIfIn(ctx context.Context, id string, allowedFrom []string, newState string, now time.Time) (*entities.CraneDemand, error)
	Deactivate(ctx context.Context, id string, now time.Time) (*entities.CraneDemand, error)
	OperatorHasTakenDemand(ctx context.Context, operatorUserID string) (bool, error)
	FindTakenByOperator(ctx context.Context, operatorUserID string) (*entities.CraneDemand, error)
	SetPaymentID(ctx context.Context, id, paymentID string, now time.Time) error
}

type DemandRepository struct {
	storage querier
}

func NewDemandRepository(storage *pgxpool.Pool) DemandRepositoryInterface {
	return &DemandRepository{storage: storage}
}

func (r *DemandRepository) Create(ctx context.Context, demand *entities.CraneDemand) error {
	query := `
		INSERT INTO crane_demands (
			id, description, origin, car_type, breakdown, reference_source, recommended_by,
			vehicle_brand, vehicle_model, vehicle_year, vehicle_plate, vehicle_color,
			state, created_by_user_id,
			current_location_lat, current_location_lng, current_location_accuracy, current_location_name,
			destination_location_lat, destination_location_lng, destination_location_accuracy, destination_location_name,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	curLat, curLng, curAcc, curName := flattenLocation(demand.CurrentLocation)
	dstLat, dstLng, dstAcc, dstName := flattenLocation(demand.DestinationLocation)

	_, err := r.storage.Exec(ctx, query,
		demand.ID, demand.Description, demand.Origin, demand.CarType, demand.Breakdown,
		demand.ReferenceSource, demand.RecommendedBy,
		demand.VehicleBrand, demand.VehicleModel, demand.VehicleYear, demand.VehiclePlate, demand.VehicleColor,
		demand.State, demand.CreatedByUserID,
		curLat, curLng, curAcc, curName,
		dstLat, dstLng, dstAcc, dstName,
		demand.CreatedAt, demand.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// the partial unique index closes the check-then-create race
			return apperrors.NewConflictError("user already has an active or taken crane demand")
		}
		return fmt.Errorf("inserting crane demand: %w", err)
	}
	return nil
}

func (r *DemandRepository) FindByID(ctx context.Context, id string) (*entities.CraneDemand, error) {
	query := "SELECT " + demandColumns + " FROM crane_demands WHERE id = $1"

	demand, err := scanDemand(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("crane demand not found")
		}
		return nil, fmt.Errorf("scanning crane demand: %w", err)
	}
	return demand, nil
}

func (r *DemandRepository) FindWithFilters(ctx context.Context, filter types.DemandFilter) ([]entities.CraneDemand, uint64, error) {
	selectBuilder, countBuilder := BuildDemandSearchQuery(filter)

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting crane demands: %w", err)
	}

	selectSQL, selectArgs, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building search query: %w", err)
	}
	rows, err := r.storage.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying crane demands: %w", err)
	}
	defer rows.Close()

	demands := make([]entities.CraneDemand, 0)
	for rows.Next() {
		demand, err := scanDemand(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning crane demand row: %w", err)
		}
		demands = append(demands, *demand)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating crane demand rows: %w", err)
	}
	return demands, total, nil
}

func (r *DemandRepository) FindByCreator(ctx context.Context, creatorUserID string) ([]entities.CraneDemand, error) {
	query := "SELECT " + demandColumns + " FROM crane_demands WHERE created_by_user_id = $1 ORDER BY created_at DESC"

	rows, err := r.storage.Query(ctx, query, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("querying demands by creator: %w", err)
	}
	defer rows.Close()

	demands := make([]entities.CraneDemand, 0)
	for rows.Next() {
		demand, err := scanDemand(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning crane demand row: %w", err)
		}
		demands = append(demands, *demand)
	}
	return demands, rows.Err()
}

// AssignIfActive performs the TAKEN transition as a single conditional
// write keyed on the expected prior state, so two operators racing for the
// same demand cannot both succeed.
func (r *DemandRepository) AssignIfActive(ctx context.Context, id, operatorUserID, weightCategoryID string, now time.Time) (*entities.CraneDemand, error) {
	query := `
		UPDATE crane_demands
		SET state = $1,
		    assigned_operator_id = $2,
		    assigned_weight_category_id = $3,
		    edited_by_user_id = $2,
		    updated_at = $4
		WHERE id = $5 AND state = $6
		RETURNING ` + demandColumns

	demand, err := scanDemand(r.storage.QueryRow(ctx, query,
		constants.DemandStateTaken, operatorUserID, weightCategoryID, now, id, constants.DemandStateActive))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError("operator already has a taken crane demand")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.explainMissedTransition(ctx, id, "crane demand is not assignable in its current state")
		}
		return nil, fmt.Errorf("assigning crane demand: %w", err)
	}
	return demand, nil
}

// UpdateStateIfIn moves the demand to newState only when its current state
// is one of allowedFrom. Zero rows updated is disambiguated into NotFound
// vs Conflict by re-reading the row.
func (r *DemandRepository) UpdateStateIfIn(ctx context.Context, id string, allowedFrom []string, newState string, now time.Time) (*entities.CraneDemand, error) {
	builder := sq.Update("crane_demands").
		Set("state", newState).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"state": allowedFrom}).
		Suffix("RETURNING " + demandColumns).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building state update: %w", err)
	}

	demand, err := scanDemand(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.explainMissedTransition(ctx, id,
				fmt.Sprintf("crane demand cannot transition to %s from its current state", newState))
		}
		return nil, fmt.Errorf("updating crane demand state: %w", err)
	}
	return demand, nil
}

// Deactivate is the administrative soft delete; it is allowed from any
// state and preserves the record for audit and payment linkage.
func (r *DemandRepository) Deactivate(ctx context.Context, id string, now time.Time) (*entities.CraneDemand, error) {
	query := `
		UPDATE crane_demands
		SET state = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + demandColumns

	demand, err := scanDemand(r.storage.QueryRow(ctx, query, constants.DemandStateInactive, now, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("crane demand not found")
		}
		return nil, fmt.Errorf("deactivating crane demand: %w", err)
	}
	return demand, nil
}

func (r *DemandRepository) OperatorHasTakenDemand(ctx context.Context, operatorUserID string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM crane_demands WHERE assigned_operator_id = $1 AND state = $2)`,
		operatorUserID, constants.DemandStateTaken,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking operator taken demand: %w", err)
	}
	return exists, nil
}

func (r *DemandRepository) FindTakenByOperator(ctx context.Context, operatorUserID string) (*entities.CraneDemand, error) {
	query := "SELECT " + demandColumns + ` FROM crane_demands
		WHERE assigned_operator_id = $1 AND state = $2
		ORDER BY updated_at DESC LIMIT 1`

	demand, err := scanDemand(r.storage.QueryRow(ctx, query, operatorUserID, constants.DemandStateTaken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("querying taken demand for operator: %w", err)
	}
	return demand, nil
}

func (r *DemandRepository) SetPaymentID(ctx context.Context, id, paymentID string, now time.Time) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE crane_demands SET payment_id = $1, updated_at = $2 WHERE id = $3`,
		paymentID, now, id)
	if err != nil {
		return fmt.Errorf("linking payment to crane demand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("crane demand not found")
	}
	return nil
}

// explainMissedTransition turns "zero rows updated" into the right error
// kind: NotFound when the demand does not exist, Conflict otherwise.
func (r *DemandRepository) explainMissedTransition(ctx context.Context, id, conflictMessage string) error {
	var state string
	err := r.storage.QueryRow(ctx, `SELECT state FROM crane_demands WHERE id = $1`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("crane demand not found")
	}
	if err != nil {
		return fmt.Errorf("re-reading crane demand state: %w", err)
	}
	return apperrors.NewConflictError(conflictMessage)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func flattenLocation(loc *entities.Location) (lat, lng, acc null.Float64, name null.String) {
	if loc == nil {
		return
	}
	lat = null.Float64From(loc.Latitude)
	lng = null.Float64From(loc.Longitude)
	acc = loc.Accuracy
	name = loc.Name
	return
}

func scanDemand(row pgx.Row) (*entities.CraneDemand, error) {
	var d entities.CraneDemand
	var curLat, curLng, curAcc, dstLat, dstLng, dstAcc null.Float64
	var curName, dstName null.String

	err := row.Scan(
		&d.ID, &d.Description, &d.Origin, &d.CarType, &d.Breakdown, &d.ReferenceSource, &d.RecommendedBy,
		&d.VehicleBrand, &d.VehicleModel, &d.VehicleYear, &d.VehiclePlate, &d.VehicleColor,
		&d.State, &d.CreatedByUserID, &d.EditedByUserID, &d.AssignedOperatorID,
		&d.AssignedWeightCategoryID, &d.PaymentID,
		&curLat, &curLng, &curAcc, &curName,
		&dstLat, &dstLng, &dstAcc, &dstName,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.CurrentLocation = buildLocation(curLat, curLng, curAcc, curName)
	d.DestinationLocation = buildLocation(dstLat, dstLng, dstAcc, dstName)
	return &d, nil
}

func buildLocation(lat, lng, acc null.Float64, name null.String) *entities.Location {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &entities.Location{
		Latitude:  lat.Float64,
		Longitude: lng.Float64,
		Accuracy:  acc,
		Name:      name,
	}
}
