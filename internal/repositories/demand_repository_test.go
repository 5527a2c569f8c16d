package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/database/postgresql"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
	"github.com/basshamut/gruastremart-core-api/pkg/utils"
)

// newTestPool connects to the database named by TEST_DATABASE_URL and
// applies the migrations. Tests are skipped when the variable is unset so
// the suite still passes on machines without Postgres.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, postgresql.RunMigrations(dsn, "../../migrations"))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	cleanupTables(t, pool)
	return pool
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE payments, crane_demands, users CASCADE`)
	require.NoError(t, err)
}

func seedUser(t *testing.T, pool *pgxpool.Pool, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", "Test "+role, role)
	require.NoError(t, err)
	return id
}

func activeDemand(creatorID string) *entities.CraneDemand {
	now := time.Now().UTC()
	return &entities.CraneDemand{
		ID:              uuid.NewString(),
		Description:     "needs a tow",
		State:           constants.DemandStateActive,
		CreatedByUserID: creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestDemandRepository_CreateAndFind(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	creatorID := seedUser(t, pool, "CLIENT")
	demand := activeDemand(creatorID)
	demand.CurrentLocation = &entities.Location{Latitude: 10.48, Longitude: -66.90}

	require.NoError(t, repo.Create(ctx, demand))

	found, err := repo.FindByID(ctx, demand.ID)
	require.NoError(t, err)
	assert.Equal(t, demand.Description, found.Description)
	assert.Equal(t, constants.DemandStateActive, found.State)
	require.NotNil(t, found.CurrentLocation)
	assert.InDelta(t, 10.48, found.CurrentLocation.Latitude, 1e-9)
	assert.Nil(t, found.DestinationLocation)
}

func TestDemandRepository_DuplicateActiveDemandConflicts(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	creatorID := seedUser(t, pool, "CLIENT")
	require.NoError(t, repo.Create(ctx, activeDemand(creatorID)))

	err := repo.Create(ctx, activeDemand(creatorID))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDemandRepository_AssignIfActive(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	creatorID := seedUser(t, pool, "CLIENT")
	operatorID := seedUser(t, pool, "OPERATOR")
	demand := activeDemand(creatorID)
	require.NoError(t, repo.Create(ctx, demand))

	taken, err := repo.AssignIfActive(ctx, demand.ID, operatorID, "peso_1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, constants.DemandStateTaken, taken.State)
	assert.Equal(t, operatorID, taken.AssignedOperatorID.String)

	// the demand is no longer ACTIVE, so a second claim conflicts
	otherOperatorID := seedUser(t, pool, "OPERATOR")
	_, err = repo.AssignIfActive(ctx, demand.ID, otherOperatorID, "peso_1", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDemandRepository_AssignMissingDemandIsNotFound(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)

	operatorID := seedUser(t, pool, "OPERATOR")
	_, err := repo.AssignIfActive(context.Background(), uuid.NewString(), operatorID, "peso_1", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDemandRepository_OperatorTakenUniqueness(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	operatorID := seedUser(t, pool, "OPERATOR")

	first := activeDemand(seedUser(t, pool, "CLIENT"))
	require.NoError(t, repo.Create(ctx, first))
	second := activeDemand(seedUser(t, pool, "CLIENT"))
	require.NoError(t, repo.Create(ctx, second))

	_, err := repo.AssignIfActive(ctx, first.ID, operatorID, "peso_1", time.Now().UTC())
	require.NoError(t, err)

	_, err = repo.AssignIfActive(ctx, second.ID, operatorID, "peso_1", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	busy, err := repo.OperatorHasTakenDemand(ctx, operatorID)
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestDemandRepository_UpdateStateIfIn(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	demand := activeDemand(seedUser(t, pool, "CLIENT"))
	require.NoError(t, repo.Create(ctx, demand))

	// COMPLETED requires TAKEN, so this conflicts
	_, err := repo.UpdateStateIfIn(ctx, demand.ID,
		[]string{constants.DemandStateTaken}, constants.DemandStateCompleted, time.Now().UTC())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	cancelled, err := repo.UpdateStateIfIn(ctx, demand.ID,
		[]string{constants.DemandStateActive, constants.DemandStateTaken},
		constants.DemandStateCancelled, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, constants.DemandStateCancelled, cancelled.State)
}

func TestDemandRepository_ProximityFilter(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	near := activeDemand(seedUser(t, pool, "CLIENT"))
	near.Description = "near the plaza"
	near.CurrentLocation = &entities.Location{Latitude: 10.4806, Longitude: -66.9036}
	require.NoError(t, repo.Create(ctx, near))

	// roughly 140 km west of the reference point
	far := activeDemand(seedUser(t, pool, "CLIENT"))
	far.Description = "far away"
	far.CurrentLocation = &entities.Location{Latitude: 10.2442, Longitude: -68.0077}
	require.NoError(t, repo.Create(ctx, far))

	noLocation := activeDemand(seedUser(t, pool, "CLIENT"))
	noLocation.Description = "no coordinates"
	require.NoError(t, repo.Create(ctx, noLocation))

	filter := types.DemandFilter{
		Lat:      utils.Ptr(10.4806),
		Lng:      utils.Ptr(-66.9036),
		RadiusKm: utils.Ptr(10.0),
		Page:     0,
		Size:     10,
	}
	demands, total, err := repo.FindWithFilters(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, demands, 1)
	assert.Equal(t, near.ID, demands[0].ID)

	// a wide enough radius reaches the far demand but never the one
	// without coordinates
	filter.RadiusKm = utils.Ptr(500.0)
	demands, total, err = repo.FindWithFilters(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, demands, 2)
}

func TestDemandRepository_ProximityAtTheEquator(t *testing.T) {
	pool := newTestPool(t)
	repo := NewDemandRepository(pool)
	ctx := context.Background()

	// about 1.1 km east of the reference point
	nearby := activeDemand(seedUser(t, pool, "CLIENT"))
	nearby.CurrentLocation = &entities.Location{Latitude: 0, Longitude: 0.01}
	require.NoError(t, repo.Create(ctx, nearby))

	distant := activeDemand(seedUser(t, pool, "CLIENT"))
	distant.CurrentLocation = &entities.Location{Latitude: 10, Longitude: 10}
	require.NoError(t, repo.Create(ctx, distant))

	demands, total, err := repo.FindWithFilters(ctx, types.DemandFilter{
		Lat:      utils.Ptr(0.0),
		Lng:      utils.Ptr(0.0),
		RadiusKm: utils.Ptr(5.0),
		Page:     0,
		Size:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, demands, 1)
	assert.Equal(t, nearby.ID, demands[0].ID)
}
