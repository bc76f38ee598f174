package models

// FoodAnalysis is the validated shape the identification layer hands to the
// resolver. Any JSON repair or field coercion happens before this point;
// the resolver only sees typed optional fields.
type FoodAnalysis struct {
	Foods []IdentifiedFood `json:"foods"`

	// Aggregate nutrition for the whole meal. When present it wins over any
	// per-food figures, even if they disagree.
	TotalNutrition *Nutrition `json:"total_nutrition,omitempty"`

	DishDescription   string `json:"dish_description,omitempty"`
	PreparationMethod string `json:"preparation_method,omitempty"`
}

// IdentifiedFood is one food detected in the photo.
type IdentifiedFood struct {
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"` // 0.0 - 1.0
	PortionSize string  `json:"portion_size,omitempty"`
	Category    string  `json:"category,omitempty"`

	// Per-food nutrition, when the identification backend provides it.
	Nutrition *Nutrition `json:"nutrition,omitempty"`

	EstimatedGrams float64 `json:"estimated_grams,omitempty"`
	UnitsCount     int     `json:"units_count,omitempty"`
}

// Nutrition carries calories plus macro grams.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
