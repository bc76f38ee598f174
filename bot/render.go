package bot

import (
	"fmt"
	"strings"

	"github.com/fperezb/diet-agent-telegram/models"
	"github.com/fperezb/diet-agent-telegram/services"
)

func renderWelcome() string {
	return "¡Hola! 👋 Soy tu Agente Dietético personal\n\n" +
		"📸 Envíame una foto de tu comida y te diré:\n" +
		"• Qué alimentos identifico\n" +
		"• Las calorías aproximadas\n" +
		"• Información nutricional básica\n\n" +
		"¡Empezemos! Envía una foto de tu comida 🍽️"
}

func renderHelp() string {
	return "🤖 *Cómo usar el Diet Agent:*\n\n" +
		"1. Envía una foto de tu comida 📸\n" +
		"2. Espera el análisis automático 🧠\n" +
		"3. Recibe calorías, desglose y consejos 💡\n\n" +
		"*Comandos disponibles:*\n" +
		"/start - Iniciar el bot\n" +
		"/help - Mostrar esta ayuda\n" +
		"/stats - Ver estadísticas de hoy\n" +
		"/meta - Establecer tu meta diaria de calorías\n" +
		"/reporte - Resumen del mes (opcional: /reporte 2026-07)\n" +
		"/borrar - Eliminar todos tus datos\n\n" +
		"¡Disfruta de una alimentación más consciente! 🌟"
}

func renderUnauthorized(userID int64) string {
	return "🚫 *Acceso no autorizado*\n\n" +
		"Lo siento, no tienes permisos para usar este bot.\n" +
		"Si crees que esto es un error, contacta al administrador.\n\n" +
		fmt.Sprintf("Tu ID de usuario: `%d`", userID)
}

func renderTryAgain() string {
	return "🚫 Ocurrió un error guardando tus datos.\nPor favor, intenta nuevamente."
}

// renderMealAnalysis is the main reply after a photo: identified foods,
// totals, goal projection, and the running daily total.
func renderMealAnalysis(analysis *models.FoodAnalysis, result *services.MealLogResult) string {
	var sb strings.Builder
	sb.WriteString("🍽️ *Análisis de tu comida:*\n\n")

	sb.WriteString("📋 *Alimentos identificados:*\n")
	for _, f := range analysis.Foods {
		sb.WriteString(fmt.Sprintf("• %s (%.0f%%)\n", f.Name, f.Confidence*100))
	}

	n := result.Nutrition
	sb.WriteString(fmt.Sprintf("\n🔥 *Calorías totales estimadas:* %d kcal\n\n", n.TotalCalories))

	sb.WriteString("📊 *Desglose nutricional:*\n")
	sb.WriteString(fmt.Sprintf("• Proteína: %.1fg\n", n.ProteinG))
	sb.WriteString(fmt.Sprintf("• Carbohidratos: %.1fg\n", n.CarbsG))
	sb.WriteString(fmt.Sprintf("• Grasas: %.1fg\n", n.FatG))

	if check := result.GoalCheck; check != nil {
		sb.WriteString("\n🎯 *Tu meta:*\n")
		if !check.HasGoal {
			sb.WriteString(check.Message + "\n")
		} else {
			sb.WriteString(check.Message + "\n")
			sb.WriteString(fmt.Sprintf("Llevas %d de %d kcal (%.1f%% proyectado)\n",
				check.ProjectedCalories, check.DailyGoal, check.ProjectedPercentage))
		}
	}

	if daily := result.Daily; daily != nil {
		sb.WriteString(fmt.Sprintf("\n🍽️ Comidas registradas hoy: %d\n", daily.MealCount))
	}

	if len(n.Tips) > 0 {
		sb.WriteString(fmt.Sprintf("\n💡 *Consejo:* %s", strings.Join(n.Tips, " ")))
	}
	return sb.String()
}

func renderDailyStats(stats *services.DailyStats) string {
	var sb strings.Builder
	sb.WriteString("📊 *Estadísticas de hoy:*\n\n")

	s := stats.Summary
	sb.WriteString(fmt.Sprintf("🔥 Calorías totales: %d kcal\n", s.TotalCalories))
	sb.WriteString(fmt.Sprintf("🍽️ Comidas analizadas: %d\n", s.MealCount))
	if s.LastMealTime != "" {
		sb.WriteString(fmt.Sprintf("⏰ Última comida: %s\n", s.LastMealTime))
	} else {
		sb.WriteString("⏰ Última comida: --:--\n")
	}

	if goal := stats.Goal; goal != nil {
		remaining := goal.DailyCalorieGoal - s.TotalCalories
		if remaining < 0 {
			remaining = 0
		}
		sb.WriteString(fmt.Sprintf("\n🎯 Meta diaria: %d kcal (te quedan %d)\n", goal.DailyCalorieGoal, remaining))
	} else {
		sb.WriteString("\n🎯 Sin meta configurada. Usa /meta para establecer una.\n")
	}

	if len(s.Meals) > 0 {
		sb.WriteString("\n*Comidas de hoy:*\n")
		for _, m := range s.Meals {
			sb.WriteString(fmt.Sprintf("• %s - %s (%d kcal)\n", m.Time, m.Foods, m.Calories))
		}
	}

	if w := stats.Weekly; w != nil && w.TotalMeals > 0 {
		sb.WriteString(fmt.Sprintf("\n📅 Esta semana: %d kcal en %d comidas\n", w.TotalCalories, w.TotalMeals))
	}

	if s.MealCount == 0 {
		sb.WriteString("\n💡 ¡Envía fotos de tus comidas para ver tus estadísticas!")
	}
	return sb.String()
}

func renderMonthlyReport(r *services.MonthlySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Reporte de %s:*\n\n", r.Month))

	if r.DaysTracked == 0 {
		sb.WriteString("No hay comidas registradas en este mes.\n")
		sb.WriteString("📸 ¡Envía fotos de tus comidas para empezar a registrar!")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("🗓️ Días con registro: %d de %d\n", r.DaysTracked, r.DaysInMonth))
	sb.WriteString(fmt.Sprintf("🔥 Calorías totales: %d kcal\n", r.TotalCalories))
	sb.WriteString(fmt.Sprintf("🍽️ Comidas: %d\n", r.TotalMeals))
	sb.WriteString(fmt.Sprintf("📈 Promedio diario: %.1f kcal\n", r.AvgDailyCalories))

	if r.HasGoal {
		sb.WriteString(fmt.Sprintf("\n🎯 *Meta: %d kcal/día*\n", r.DailyGoal))
		sb.WriteString(fmt.Sprintf("✅ Días en meta: %d\n", r.DaysOnTarget))
		sb.WriteString(fmt.Sprintf("⬆️ Días por encima: %d\n", r.DaysOver))
		sb.WriteString(fmt.Sprintf("⬇️ Días por debajo: %d\n", r.DaysUnder))
		sb.WriteString(fmt.Sprintf("🏆 Tasa de éxito: %.1f%%\n", r.SuccessRate))

		if r.BestDay != nil {
			sb.WriteString(fmt.Sprintf("\n🥇 Mejor día: %s (%d kcal)\n", r.BestDay.Date, r.BestDay.Calories))
		}
		if r.WorstDay != nil {
			sb.WriteString(fmt.Sprintf("🥵 Peor día: %s (%d kcal)\n", r.WorstDay.Date, r.WorstDay.Calories))
		}
	} else {
		sb.WriteString("\n🎯 Configura una meta con /meta para ver tu cumplimiento diario.\n")
	}
	return sb.String()
}
