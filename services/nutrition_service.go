package services

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fperezb/diet-agent-telegram/models"
)

// UnknownFoodCalories is the flat estimate for a food the resolver could not
// place anywhere: not in the backend response and not in the local table.
const UnknownFoodCalories = 50.0

// portionCountCap limits explicit-count multipliers for foods that are not
// discrete units (three plates of rice is still roughly one large serving).
const portionCountCap = 3

// NutritionService turns a food-identification result into calorie and macro
// totals. It prefers backend-supplied nutrition and degrades through a local
// reference table; it never returns an error, only lower-confidence numbers.
type NutritionService struct{}

func NewNutritionService() *NutritionService {
	return &NutritionService{}
}

// ResolvedFood is the per-food itemization in a resolution result.
type ResolvedFood struct {
	Name         string  `json:"name"`
	Calories     int     `json:"calories"`
	PortionGrams float64 `json:"portion_grams,omitempty"`
	UnitsCount   int     `json:"units_count,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// NutritionResult is the resolver output. TotalCalories is rounded to the
// nearest kcal; macros stay in grams.
type NutritionResult struct {
	TotalCalories     int            `json:"total_calories"`
	ProteinG          float64        `json:"protein_g"`
	CarbsG            float64        `json:"carbs_g"`
	FatG              float64        `json:"fat_g"`
	IdentifiedFoods   []ResolvedFood `json:"identified_foods"`
	UnidentifiedFoods []string       `json:"unidentified_foods"`
	Tips              []string       `json:"tips"`
	Source            string         `json:"source"`
}

// Breakdown formats the macros the way the outgoing message renders them.
func (r *NutritionResult) Breakdown() map[string]string {
	return map[string]string{
		"Proteína":      fmt.Sprintf("%.1fg", r.ProteinG),
		"Carbohidratos": fmt.Sprintf("%.1fg", r.CarbsG),
		"Grasas":        fmt.Sprintf("%.1fg", r.FatG),
	}
}

// Resolve applies the priority chain: aggregate total from the backend wins,
// then per-food backend figures, then the local table with portion and
// confidence scaling.
func (s *NutritionService) Resolve(analysis *models.FoodAnalysis) *NutritionResult {
	if analysis == nil || len(analysis.Foods) == 0 {
		return emptyNutritionResult()
	}

	if analysis.TotalNutrition != nil {
		return s.resolveFromAggregate(analysis)
	}
	if hasIndividualNutrition(analysis.Foods) {
		return s.resolveFromFoods(analysis.Foods)
	}
	return s.resolveFromTable(analysis.Foods)
}

func (s *NutritionService) resolveFromAggregate(analysis *models.FoodAnalysis) *NutritionResult {
	agg := analysis.TotalNutrition

	items := make([]ResolvedFood, 0, len(analysis.Foods))
	for _, f := range analysis.Foods {
		var kcal float64
		if f.Nutrition != nil {
			kcal = f.Nutrition.Calories
		}
		items = append(items, ResolvedFood{
			Name:         f.Name,
			Calories:     int(math.Round(kcal)),
			PortionGrams: f.EstimatedGrams,
			UnitsCount:   f.UnitsCount,
			Confidence:   confidenceOrDefault(f.Confidence),
		})
	}

	return &NutritionResult{
		TotalCalories:     int(math.Round(agg.Calories)),
		ProteinG:          agg.Protein,
		CarbsG:            agg.Carbs,
		FatG:              agg.Fat,
		IdentifiedFoods:   items,
		UnidentifiedFoods: []string{},
		Tips:              nutritionTips(agg.Calories, agg.Protein, agg.Carbs, agg.Fat),
		Source:            "análisis completo",
	}
}

func (s *NutritionService) resolveFromFoods(foods []models.IdentifiedFood) *NutritionResult {
	var totalCal, totalProt, totalCarbs, totalFat float64
	items := make([]ResolvedFood, 0, len(foods))
	unresolved := []string{}

	for _, f := range foods {
		if f.Nutrition == nil {
			// No figures for this one food: flat fallback, zero macros.
			unresolved = append(unresolved, f.Name)
			continue
		}
		totalCal += f.Nutrition.Calories
		totalProt += f.Nutrition.Protein
		totalCarbs += f.Nutrition.Carbs
		totalFat += f.Nutrition.Fat
		items = append(items, ResolvedFood{
			Name:         f.Name,
			Calories:     int(math.Round(f.Nutrition.Calories)),
			PortionGrams: f.EstimatedGrams,
			UnitsCount:   f.UnitsCount,
			Confidence:   confidenceOrDefault(f.Confidence),
		})
	}

	totalCal += float64(len(unresolved)) * UnknownFoodCalories
	for _, name := range unresolved {
		log.Printf("nutrition: no backend figures for %q, using %.0f kcal estimate", name, UnknownFoodCalories)
	}

	return &NutritionResult{
		TotalCalories:     int(math.Round(totalCal)),
		ProteinG:          totalProt,
		CarbsG:            totalCarbs,
		FatG:              totalFat,
		IdentifiedFoods:   items,
		UnidentifiedFoods: unresolved,
		Tips:              nutritionTips(totalCal, totalProt, totalCarbs, totalFat),
		Source:            "análisis por alimento",
	}
}

func (s *NutritionService) resolveFromTable(foods []models.IdentifiedFood) *NutritionResult {
	var totalCal, totalProt, totalCarbs, totalFat float64
	items := make([]ResolvedFood, 0, len(foods))
	unresolved := []string{}

	for _, f := range foods {
		name := strings.ToLower(strings.TrimSpace(f.Name))
		confidence := f.Confidence

		info, found := lookupFood(name)
		if !found {
			totalCal += UnknownFoodCalories
			unresolved = append(unresolved, f.Name)
			items = append(items, ResolvedFood{
				Name:       f.Name,
				Calories:   int(UnknownFoodCalories),
				Confidence: confidence,
			})
			log.Printf("nutrition: %q not in reference table, flat estimate", name)
			continue
		}

		grams := estimatePortionGrams(name, f.PortionSize)

		// Confidence scaling applies only on this table path: the estimate
		// is already rough, a shaky identification should weigh less.
		kcal := info.Calories * grams / 100 * confidence
		prot := info.Protein * grams / 100 * confidence
		carbs := info.Carbs * grams / 100 * confidence
		fat := info.Fat * grams / 100 * confidence

		totalCal += kcal
		totalProt += prot
		totalCarbs += carbs
		totalFat += fat
		items = append(items, ResolvedFood{
			Name:         f.Name,
			Calories:     int(math.Round(kcal)),
			PortionGrams: grams,
			Confidence:   confidence,
		})
	}

	return &NutritionResult{
		TotalCalories:     int(math.Round(totalCal)),
		ProteinG:          totalProt,
		CarbsG:            totalCarbs,
		FatG:              totalFat,
		IdentifiedFoods:   items,
		UnidentifiedFoods: unresolved,
		Tips:              nutritionTips(totalCal, totalProt, totalCarbs, totalFat),
		Source:            "tabla de referencia local",
	}
}

var countRe = regexp.MustCompile(`\d+`)

var spelledCounts = []struct {
	words []string
	count int
}{
	{[]string{"dos", "par", "pareja"}, 2},
	{[]string{"tres"}, 3},
	{[]string{"cuatro"}, 4},
	{[]string{"cinco"}, 5},
}

// estimatePortionGrams turns a free-text portion description into grams,
// starting from the food's typical portion weight.
func estimatePortionGrams(foodName, portion string) float64 {
	base, ok := portionTable[foodName]
	if !ok {
		base = defaultPortionGrams
	}
	if portion == "" {
		return base
	}
	desc := strings.ToLower(portion)

	count := 0
	if m := countRe.FindString(desc); m != "" {
		count, _ = strconv.Atoi(m)
	} else {
		for _, sc := range spelledCounts {
			for _, w := range sc.words {
				if strings.Contains(desc, w) {
					count = sc.count
					break
				}
			}
			if count != 0 {
				break
			}
		}
	}
	if count > 0 {
		if isUnitFood(foodName) {
			// Discrete units: four biscuits really is four times the weight.
			return base * float64(count)
		}
		if count > portionCountCap {
			count = portionCountCap
		}
		return base * float64(count)
	}

	// Size adjectives, most specific first so "muy grande" is not swallowed
	// by the "grande" match.
	switch {
	case containsAny(desc, "muy grande", "enorme", "gigante"):
		return base * 2.0
	case containsAny(desc, "pequeño", "pequeña", "mini"):
		return base * 0.7
	case containsAny(desc, "grande", "gran", "jumbo"):
		return base * 1.5
	case containsAny(desc, "mediano", "mediana", "medio"):
		return base
	}
	return base
}

func isUnitFood(name string) bool {
	return strings.Contains(name, "galleta") || strings.Contains(name, "cookie")
}

// nutritionTips derives short advice lines from threshold checks. There is
// always at least one tip so the rendered message never has an empty section.
func nutritionTips(calories, protein, carbs, fat float64) []string {
	var tips []string

	if calories > 800 {
		tips = append(tips, "Esta es una comida alta en calorías. Considera porciones más pequeñas.")
	} else if calories < 200 {
		tips = append(tips, "Esta comida es baja en calorías. Asegúrate de obtener energía suficiente.")
	}

	if protein < 10 {
		tips = append(tips, "Considera agregar más proteína a tu comida.")
	} else if protein > 40 {
		tips = append(tips, "Excelente contenido de proteína para la recuperación muscular.")
	}

	if carbs > 60 {
		tips = append(tips, "Alto contenido de carbohidratos. Ideal después del ejercicio.")
	}
	if fat > 30 {
		tips = append(tips, "Moderado-alto en grasas. Asegúrate de que sean grasas saludables.")
	}

	if len(tips) == 0 {
		tips = append(tips, "Comida bien balanceada. ¡Sigue así!")
	}
	return tips
}

func emptyNutritionResult() *NutritionResult {
	return &NutritionResult{
		IdentifiedFoods:   []ResolvedFood{},
		UnidentifiedFoods: []string{},
		Tips:              []string{"No se pudo analizar la comida. Intenta con una foto más clara."},
		Source:            "sin análisis",
	}
}

func hasIndividualNutrition(foods []models.IdentifiedFood) bool {
	for _, f := range foods {
		if f.Nutrition != nil {
			return true
		}
	}
	return false
}

func confidenceOrDefault(c float64) float64 {
	if c <= 0 {
		return 1.0
	}
	return c
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
