package constants

// WeightCategory classifies the towed vehicle for pricing purposes.
type WeightCategory struct {
	ID          string
	Description string
}

// The pricing catalog. IDs are stable and referenced by crane demands.
var WeightCategories = []WeightCategory{
	{ID: "peso_1", Description: "Hasta 2500 kg"},
	{ID: "peso_2", Description: "De 2501 a 5000 kg"},
	{ID: "peso_3", Description: "De 5001 a 10000 kg"},
	{ID: "peso_4", Description: "Más de 10000 kg"},
}

// WeightCategoryByID resolves a category id, reporting whether it exists.
func WeightCategoryByID(id string) (WeightCategory, bool) {
	for _, c := range WeightCategories {
		if c.ID == id {
			return c, true
		}
	}
	return WeightCategory{}, false
}
