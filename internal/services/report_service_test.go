package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
)

func TestReportService_GenerateDemandReport(t *testing.T) {
	repo := newFakeDemandRepo()
	ctx := context.Background()

	demand := &entities.CraneDemand{
		ID:                       "demand-1",
		Description:              "towed from the beltway",
		State:                    constants.DemandStateCompleted,
		CreatedByUserID:          "client-1",
		AssignedOperatorID:       nullStringFrom("operator-1"),
		AssignedWeightCategoryID: nullStringFrom("peso_2"),
		VehicleBrand:             nullStringFrom("Toyota"),
		VehicleModel:             nullStringFrom("Corolla"),
		CurrentLocation:          &entities.Location{Latitude: 10.48, Longitude: -66.90},
		CreatedAt:                time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		UpdatedAt:                time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, demand))

	svc := NewReportService(repo, zap.NewNop())
	buf, err := svc.GenerateDemandReport(ctx, types.DemandFilter{Page: 0, Size: 10})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Crane Demands")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "demand-1", rows[1][0])
	assert.Equal(t, constants.DemandStateCompleted, rows[1][2])
	assert.Equal(t, "De 2501 a 5000 kg", rows[1][5])
	assert.Contains(t, rows[1][6], "Toyota")
}

func TestReportService_EmptyResultStillRenders(t *testing.T) {
	svc := NewReportService(newFakeDemandRepo(), zap.NewNop())

	buf, err := svc.GenerateDemandReport(context.Background(), types.DemandFilter{Page: 0, Size: 10})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Crane Demands")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
