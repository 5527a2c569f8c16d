package repositories

import (
	"net/url"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
	"github.com/basshamut/gruastremart-core-api/pkg/types"
)

const (
	defaultPage = 0
	defaultSize = 10

	earthRadiusKm = 6371.0
)

const dateLayout = "2006-01-02"

// demand columns selected by every demand query, in scan order.
const demandColumns = `id, description, origin, car_type, breakdown, reference_source, recommended_by,
	vehicle_brand, vehicle_model, vehicle_year, vehicle_plate, vehicle_color,
	state, created_by_user_id, edited_by_user_id, assigned_operator_id,
	assigned_weight_category_id, payment_id,
	current_location_lat, current_location_lng, current_location_accuracy, current_location_name,
	destination_location_lat, destination_location_lng, destination_location_accuracy, destination_location_name,
	created_at, updated_at`

// ParseDemandFilter reads and validates search parameters. Validation
// failures surface before any query runs. Absent pagination falls back to
// page 0 / size 10; present but invalid values are rejected, never clamped.
func ParseDemandFilter(values url.Values) (types.DemandFilter, error) {
	filter := types.DemandFilter{Page: defaultPage, Size: defaultSize}

	if pageStr := values.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 0 {
			return filter, apperrors.NewValidationError("invalid pagination parameters: page must be an integer >= 0")
		}
		filter.Page = page
	}
	if sizeStr := values.Get("size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return filter, apperrors.NewValidationError("invalid pagination parameters: size must be an integer >= 1")
		}
		filter.Size = size
	}

	if state := values.Get("state"); state != "" {
		if !constants.IsValidDemandState(state) {
			return filter, apperrors.NewValidationError("invalid demand state: %s", state)
		}
		filter.State = state
	}

	filter.CreatedByUserID = values.Get("createdByUserId")
	filter.AssignedOperatorID = values.Get("assignedOperatorId")

	if startStr := values.Get("startDate"); startStr != "" {
		start, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid startDate, use the format %s", dateLayout)
		}
		filter.StartDate = &start
	}
	if endStr := values.Get("endDate"); endStr != "" {
		end, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid endDate, use the format %s", dateLayout)
		}
		// inclusive day range: strict bound at the next midnight keeps
		// sub-second created_at values on the end day in range
		nextDay := end.AddDate(0, 0, 1)
		filter.EndDate = &nextDay
	}

	var err error
	if filter.Lat, err = parseCoordinate(values, "lat"); err != nil {
		return filter, err
	}
	if filter.Lng, err = parseCoordinate(values, "lng"); err != nil {
		return filter, err
	}
	if filter.RadiusKm, err = parseCoordinate(values, "radiusKm"); err != nil {
		return filter, err
	}

	if err := ValidateProximity(filter); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseCoordinate(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid %s: must be a number", key)
	}
	return &v, nil
}

// ValidateProximity enforces the explicit present/absent policy for the
// radius predicate: either the full triple is present with radiusKm > 0,
// or none of it is.
func ValidateProximity(filter types.DemandFilter) error {
	present := 0
	for _, v := range []*float64{filter.Lat, filter.Lng, filter.RadiusKm} {
		if v != nil {
			present++
		}
	}
	if present == 0 {
		return nil
	}
	if present != 3 {
		return apperrors.NewValidationError("lat, lng and radiusKm must be provided together")
	}
	if *filter.RadiusKm <= 0 {
		return apperrors.NewValidationError("radiusKm must be greater than zero")
	}
	if *filter.Lat < -90 || *filter.Lat > 90 || *filter.Lng < -180 || *filter.Lng > 180 {
		return apperrors.NewValidationError("lat/lng out of range")
	}
	return nil
}

// BuildDemandSearchQuery assembles the page and count queries from one
// filter so both run against the same predicate. Results are sorted by
// created_at descending.
func BuildDemandSearchQuery(filter types.DemandFilter) (sq.SelectBuilder, sq.SelectBuilder) {
	base := sq.Select(demandColumns).
		From("crane_demands").
		PlaceholderFormat(sq.Dollar)
	count := sq.Select("COUNT(*)").
		From("crane_demands").
		PlaceholderFormat(sq.Dollar)

	conds := demandFilterConditions(filter)
	for _, cond := range conds {
		base = base.Where(cond)
		count = count.Where(cond)
	}

	base = base.
		OrderBy("created_at DESC").
		Limit(uint64(filter.Size)).
		Offset(uint64(filter.Page) * uint64(filter.Size))

	return base, count
}

func demandFilterConditions(filter types.DemandFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if filter.State != "" {
		conds = append(conds, sq.Eq{"state": filter.State})
	}
	if filter.CreatedByUserID != "" {
		conds = append(conds, sq.Eq{"created_by_user_id": filter.CreatedByUserID})
	}
	if filter.AssignedOperatorID != "" {
		conds = append(conds, sq.Eq{"assigned_operator_id": filter.AssignedOperatorID})
	}
	if filter.StartDate != nil {
		conds = append(conds, sq.GtOrEq{"created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		conds = append(conds, sq.Lt{"created_at": *filter.EndDate})
	}

	if filter.HasProximity() {
		// great-circle distance; demands without a current location are
		// excluded, not rejected
		conds = append(conds, sq.NotEq{"current_location_lat": nil})
		conds = append(conds, sq.NotEq{"current_location_lng": nil})
		conds = append(conds, sq.Expr(
			`(? * acos(least(1.0,
				cos(radians(?)) * cos(radians(current_location_lat)) *
				cos(radians(current_location_lng) - radians(?)) +
				sin(radians(?)) * sin(radians(current_location_lat))
			))) <= ?`,
			earthRadiusKm, *filter.Lat, *filter.Lng, *filter.Lat, *filter.RadiusKm,
		))
	}

	return conds
}
