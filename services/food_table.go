package services

import "strings"

// foodNutrition holds per-100g reference values.
type foodNutrition struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Reference table keyed by normalized (lowercase) Spanish food name.
// Used only when the identification backend returns no nutrition at all.
var foodTable = map[string]foodNutrition{
	// proteins
	"pollo":    {165, 31, 0, 3.6},
	"carne":    {250, 26, 0, 17},
	"pescado":  {150, 30, 0, 3},
	"huevo":    {155, 13, 1.1, 11},
	"frijoles": {127, 9, 23, 0.5},
	"lentejas": {116, 9, 20, 0.4},

	// carbohydrates
	"arroz":  {130, 2.7, 28, 0.3},
	"pasta":  {131, 5, 25, 1.1},
	"pan":    {265, 9, 49, 3.2},
	"papa":   {77, 2, 17, 0.1},
	"quinoa": {120, 4.4, 22, 1.9},

	// vegetables
	"lechuga":   {15, 1.4, 2.9, 0.2},
	"tomate":    {18, 0.9, 3.9, 0.2},
	"cebolla":   {40, 1.1, 9.3, 0.1},
	"zanahoria": {41, 0.9, 9.6, 0.2},
	"brócoli":   {34, 2.8, 7, 0.4},

	// fruits
	"manzana": {52, 0.3, 14, 0.2},
	"plátano": {89, 1.1, 23, 0.3},
	"naranja": {47, 0.9, 12, 0.1},
	"fresa":   {32, 0.7, 7.7, 0.3},

	// healthy fats
	"aguacate": {160, 2, 9, 15},
	"nuez":     {654, 15, 14, 65},
	"almendra": {579, 21, 22, 50},

	// biscuits and snacks (per-unit weights live in portionTable)
	"galletas":           {502, 6.9, 68.8, 22.9},
	"galletas serranita": {433, 3.6, 62.5, 17.9},
	"galletas maria":     {428, 7.2, 74.3, 11.4},
	"galletas oreo":      {477, 4.4, 68.8, 20.6},
	"chips":              {536, 6.6, 53.0, 34.6},
	"papas fritas":       {365, 4.0, 63.2, 12.8},
	"chocolate":          {546, 4.9, 61.2, 31.3},
	"dulces":             {394, 0.0, 98.0, 0.2},

	// dairy
	"leche":        {42, 3.4, 5.0, 1.0},
	"yogur":        {59, 10.0, 3.6, 0.4},
	"queso":        {402, 25.0, 1.3, 33.0},
	"queso fresco": {264, 11.1, 4.1, 23.0},

	// breakfast cereals
	"avena":   {389, 16.9, 66.3, 6.9},
	"cereal":  {379, 7.5, 84.0, 2.7},
	"granola": {471, 10.1, 64.3, 20.3},

	// drinks
	"jugo":     {45, 0.7, 11.2, 0.2},
	"refresco": {42, 0.0, 10.6, 0.0},
	"café":     {2, 0.3, 0.0, 0.0},

	// prepared dishes
	"pizza":       {266, 11.0, 33.0, 10.0},
	"hamburguesa": {295, 17.0, 31.0, 12.0},
	"sandwich":    {304, 12.8, 41.8, 10.7},
	"empanada":    {245, 8.5, 24.0, 13.2},

	// other
	"aceite":      {884, 0, 0, 100},
	"mantequilla": {717, 0.9, 0.1, 81},
}

// Typical portion weights in grams. For biscuit-type foods the value is the
// weight of a single unit, so count multipliers stay uncapped.
var portionTable = map[string]float64{
	"pollo":   150, // small breast
	"carne":   120,
	"pescado": 140, // fillet
	"huevo":   50,  // one egg

	"arroz": 80, // cooked serving
	"pasta": 100,
	"pan":   30, // one slice
	"papa":  150,

	"lechuga": 50,
	"tomate":  100,

	"manzana":  150,
	"plátano":  120,
	"aguacate": 100, // half

	"galletas":           25,
	"galletas serranita": 8.8,
	"galletas maria":     7.0,
	"galletas oreo":      11.0,
	"chips":              30,
	"papas fritas":       50,
	"chocolate":          25,

	"leche": 250, // glass
	"yogur": 125,
	"queso": 30,

	"jugo":     200,
	"refresco": 350, // can
	"café":     240,
}

// defaultPortionGrams is used for foods missing from portionTable.
const defaultPortionGrams = 100

// lookupFood does an exact match first, then substring match in either
// direction ("galletas de chocolate" still hits "galletas"). Several keys
// can match one name, so the fallback ranks candidates instead of taking
// whichever the map yields first.
func lookupFood(name string) (foodNutrition, bool) {
	if n, ok := foodTable[name]; ok {
		return n, true
	}

	best := ""
	bestPrefix := false
	for key := range foodTable {
		if !containsEither(key, name) {
			continue
		}
		if betterMatch(key, strings.HasPrefix(name, key), best, bestPrefix) {
			best = key
			bestPrefix = strings.HasPrefix(name, key)
		}
	}
	if best == "" {
		return foodNutrition{}, false
	}
	return foodTable[best], true
}

// betterMatch ranks substring hits. Spanish food names are head-initial
// ("galletas de chocolate" is a biscuit, not chocolate), so a key the name
// starts with beats any other hit; after that, longer keys win, and the
// final tie goes alphabetically so the same name always resolves to the
// same entry.
func betterMatch(key string, keyPrefix bool, best string, bestPrefix bool) bool {
	if best == "" {
		return true
	}
	if keyPrefix != bestPrefix {
		return keyPrefix
	}
	if len(key) != len(best) {
		return len(key) > len(best)
	}
	return key < best
}
