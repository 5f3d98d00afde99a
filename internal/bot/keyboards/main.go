package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/preferences"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Log a meal", "add_entry"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Today", "today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 History", "history"),
			tgbotapi.NewInlineKeyboardButtonData("📈 Stats", "stats"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🥣 Meals", "meals"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "settings"),
		),
	)
}

// BackToMainMenu creates a single back button
func BackToMainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}

// AddEntryMenu lists the library meals plus the direct-entry modes.
func AddEntryMenu(mealNames []string, withSuggest bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range mealNames {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🥄 "+name, "meal_pick:"+name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✏️ By direct values", "add_direct"),
	))
	if withSuggest {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Suggest a profile", "suggest"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ConfirmAddMenu asks the user to acknowledge the goal warning.
func ConfirmAddMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Add anyway", "confirm_add"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel_add"),
		),
	)
}

// MealsMenu lists the library with per-meal management actions.
func MealsMenu(mealNames []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range mealNames {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, "meal_show:"+name),
			tgbotapi.NewInlineKeyboardButtonData("⬆️", "meal_up:"+name),
			tgbotapi.NewInlineKeyboardButtonData("🗑️", "meal_rm:"+name),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add meal", "meal_add"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SettingsMenu shows metric toggles and the data actions.
func SettingsMenu(prefs *preferences.Service, hiding bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range nutrition.Metrics() {
		mark := "☐"
		if prefs.IsEnabled(m) {
			mark = "☑️"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+m.Label(), "pref_toggle:"+string(m)),
		))
	}

	hideLabel := "🙈 Hide numbers"
	if hiding {
		hideLabel = "🙉 Show numbers"
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(hideLabel, "hide_toggle"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Daily goal", "goal_set"),
			tgbotapi.NewInlineKeyboardButtonData("📌 Today's goal", "goal_today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Export", "export"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Import", "import"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// RebalanceMenu offers applying the suggested reduced target for today.
func RebalanceMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Apply for today", "apply_rebalance"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}
