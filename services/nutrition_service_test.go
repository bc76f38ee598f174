package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fperezb/diet-agent-telegram/models"
)

func TestResolvePrefersAggregateTotal(t *testing.T) {
	svc := NewNutritionService()

	// Both the aggregate and per-food figures are present; the aggregate
	// must win even when the per-food sum disagrees.
	analysis := &models.FoodAnalysis{
		Foods: []models.IdentifiedFood{
			{Name: "pollo", Confidence: 0.95, Nutrition: &models.Nutrition{Calories: 300, Protein: 40}},
			{Name: "arroz", Confidence: 0.85, Nutrition: &models.Nutrition{Calories: 200, Carbs: 45}},
		},
		TotalNutrition: &models.Nutrition{Calories: 620, Protein: 42, Carbs: 50, Fat: 12},
	}

	res := svc.Resolve(analysis)
	assert.Equal(t, 620, res.TotalCalories)
	assert.Equal(t, 42.0, res.ProteinG)
	assert.Equal(t, 50.0, res.CarbsG)
	assert.Equal(t, 12.0, res.FatG)
	assert.Len(t, res.IdentifiedFoods, 2)
	assert.Empty(t, res.UnidentifiedFoods)
}

func TestResolveSumsPerFoodFigures(t *testing.T) {
	svc := NewNutritionService()

	analysis := &models.FoodAnalysis{
		Foods: []models.IdentifiedFood{
			{Name: "pollo", Confidence: 0.95, Nutrition: &models.Nutrition{Calories: 300, Protein: 40, Fat: 8}},
			{Name: "arroz", Confidence: 0.85, Nutrition: &models.Nutrition{Calories: 200, Carbs: 45}},
		},
	}

	res := svc.Resolve(analysis)
	assert.Equal(t, 500, res.TotalCalories)
	assert.Equal(t, 40.0, res.ProteinG)
	assert.Equal(t, 45.0, res.CarbsG)
	assert.Equal(t, 8.0, res.FatG)
}

func TestResolveUnknownFoodFlatEstimate(t *testing.T) {
	svc := NewNutritionService()

	// One food has figures, the other has neither figures nor a table match.
	// The unknown one contributes exactly one flat estimate, no macros.
	analysis := &models.FoodAnalysis{
		Foods: []models.IdentifiedFood{
			{Name: "pollo", Confidence: 0.9, Nutrition: &models.Nutrition{Calories: 300, Protein: 40}},
			{Name: "plato misterioso", Confidence: 0.5},
		},
	}

	res := svc.Resolve(analysis)
	assert.Equal(t, 350, res.TotalCalories)
	assert.Equal(t, []string{"plato misterioso"}, res.UnidentifiedFoods)
	assert.Equal(t, 40.0, res.ProteinG)
}

func TestResolveFromTableScalesByPortionAndConfidence(t *testing.T) {
	svc := NewNutritionService()

	// manzana: 52 kcal/100g, typical portion 150g. 52 * 150/100 * 0.9 = 70.2.
	analysis := &models.FoodAnalysis{
		Foods: []models.IdentifiedFood{
			{Name: "manzana", Confidence: 0.9},
		},
	}

	res := svc.Resolve(analysis)
	require.Len(t, res.IdentifiedFoods, 1)
	assert.Equal(t, 70, res.TotalCalories)
	assert.Equal(t, 150.0, res.IdentifiedFoods[0].PortionGrams)
	assert.Equal(t, "tabla de referencia local", res.Source)
}

func TestResolveEmptyAnalysis(t *testing.T) {
	svc := NewNutritionService()

	for _, analysis := range []*models.FoodAnalysis{nil, {}} {
		res := svc.Resolve(analysis)
		assert.Equal(t, 0, res.TotalCalories)
		assert.Empty(t, res.IdentifiedFoods)
		assert.NotEmpty(t, res.Tips)
	}
}

func TestEstimatePortionGrams(t *testing.T) {
	tests := []struct {
		name    string
		food    string
		portion string
		want    float64
	}{
		{"default portion", "manzana", "", 150},
		{"unlisted food default", "sopa rara", "", 100},
		{"numeric count on unit food uncapped", "galletas", "4 galletas", 100},
		{"spelled count", "galletas", "dos galletas", 50},
		{"count capped for non-unit food", "arroz", "5 porciones", 240},
		{"small", "manzana", "manzana pequeña", 105},
		{"large", "manzana", "manzana grande", 225},
		{"very large beats large", "manzana", "manzana muy grande", 300},
		{"medium is neutral", "arroz", "porción mediana", 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, estimatePortionGrams(tt.food, tt.portion), 0.001)
		})
	}
}

func TestNutritionTips(t *testing.T) {
	assert.Contains(t, nutritionTips(900, 20, 30, 10)[0], "alta en calorías")
	assert.Contains(t, nutritionTips(150, 20, 30, 10)[0], "baja en calorías")
	assert.Contains(t, nutritionTips(500, 5, 30, 10)[0], "más proteína")
	assert.Contains(t, nutritionTips(500, 45, 30, 10)[0], "recuperación muscular")

	// Balanced meal still gets one closing tip.
	tips := nutritionTips(500, 25, 40, 15)
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "balanceada")
}
