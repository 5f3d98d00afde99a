package menus

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/caloq-app/caloq/internal/app"
	"github.com/caloq-app/caloq/internal/bot/keyboards"
	"github.com/caloq-app/caloq/internal/history"
	"github.com/caloq-app/caloq/internal/nutrition"
)

// hiddenValue replaces numbers when the hide-numbers toggle is on.
const hiddenValue = "X"

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🥣 *caloq* — your nutrition log

Log meals by weight against your library, or by direct values, and keep an eye on your daily goal.

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// FormatVectorLine renders one metric row, e.g. "186 kcal" or "7g protein".
func FormatVectorLine(value string, m nutrition.Metric) string {
	return value + m.Unit() + " " + m.Suffix()
}

// FormatSum renders a vector over the enabled metrics with fixed-width
// zero-padded numbers so the block doesn't jitter between days.
func FormatSum(sum nutrition.Vector, enabled []nutrition.Metric, hiding bool) string {
	numbers := nutrition.DisplayNumbers(sum)

	var b strings.Builder
	for i, m := range enabled {
		if i > 0 {
			b.WriteByte('\n')
		}
		value := numbers[m]
		if hiding {
			value = hiddenValue
		}
		b.WriteString(FormatVectorLine(value, m))
	}
	return b.String()
}

// SendToday sends today's entries, sum and goal signals.
func SendToday(api *tgbotapi.BotAPI, chatID int64, application *app.App, now time.Time) error {
	today := application.History.Today(now)
	enabled := application.Preferences.Enabled()
	hiding := application.HidingNumbers.IsHiding()

	var b strings.Builder
	b.WriteString("📋 Today\n\n")
	b.WriteString(FormatSum(today.Sum, enabled, hiding))
	b.WriteString(fmt.Sprintf("\n\n%d entries logged today.", len(today.Entries)))

	keyboard := keyboards.BackToMainMenu()

	if status, ok := application.TodayGoalStatus(now); ok && !hiding {
		if status.Exceeded {
			b.WriteString(fmt.Sprintf("\n\n⚠️ Goal of %.0f kcal reached (%.0f consumed).", status.Goal, status.Consumed))
		} else {
			b.WriteString(fmt.Sprintf("\n\n🎯 %.0f kcal remaining of %.0f.", status.Remaining, status.Goal))
		}
	}

	if target, ok := application.RebalanceSuggestion(now); ok {
		b.WriteString(fmt.Sprintf("\n\n⚖️ Yesterday went over your goal. Aim for %.0f kcal today to balance it out.", target))
		keyboard = keyboards.RebalanceMenu()
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboard
	_, err := api.Send(msg)
	return err
}

// SendHistory sends the most recent day groups with their sums.
func SendHistory(api *tgbotapi.BotAPI, chatID int64, application *app.App, maxDays int) error {
	groups := application.History.GroupedByDate()
	enabled := application.Preferences.Enabled()
	hiding := application.HidingNumbers.IsHiding()

	var b strings.Builder
	b.WriteString("📅 History\n")
	if len(groups) == 0 {
		b.WriteString("\nNothing logged yet.")
	}
	if len(groups) > maxDays {
		groups = groups[:maxDays]
	}
	for _, group := range groups {
		b.WriteString("\n" + group.Date + "\n")
		numbers := nutrition.DisplayNumbers(group.Sum)
		for _, m := range enabled {
			value := numbers[m]
			if hiding {
				value = hiddenValue
			}
			b.WriteString("  " + FormatVectorLine(value, m) + "\n")
		}
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err := api.Send(msg)
	return err
}

// SendStats sends rolling 7/30-day averages and the kcal trend.
func SendStats(api *tgbotapi.BotAPI, chatID int64, application *app.App, now time.Time) error {
	hiding := application.HidingNumbers.IsHiding()
	last7 := application.History.AggregateLastDays(now, 7)
	last30 := application.History.AggregateLastDays(now, 30)

	format := func(agg history.Aggregate) string {
		if hiding {
			return hiddenValue
		}
		return fmt.Sprintf("%.0f", agg.Avg.Kcal)
	}

	var b strings.Builder
	b.WriteString("📈 Stats\n\n")
	b.WriteString(fmt.Sprintf("Last 7 days avg:  %s kcal\n", format(last7)))
	b.WriteString(fmt.Sprintf("Last 30 days avg: %s kcal\n", format(last30)))

	if points := application.History.ChartData(30); len(points) > 0 && !hiding {
		b.WriteString("\nDaily kcal:\n")
		for _, p := range points {
			b.WriteString(fmt.Sprintf("  %s  %.0f\n", p.Date, p.Kcal))
		}
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err := api.Send(msg)
	return err
}

// SendMeals sends the meal library overview.
func SendMeals(api *tgbotapi.BotAPI, chatID int64, application *app.App) error {
	entries := application.Meals.Entries()

	text := "🥣 Your meals (per 100g profiles)\n\nTap a name for details, ⬆️ to move it up, 🗑️ to remove it."
	if len(entries) == 0 {
		text = "🥣 Your meal library is empty."
	}

	names := make([]string, 0, len(entries))
	for _, meal := range entries {
		names = append(names, meal.Name)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.MealsMenu(names)
	_, err := api.Send(msg)
	return err
}

// SendSettings sends the settings menu.
func SendSettings(api *tgbotapi.BotAPI, chatID int64, application *app.App) error {
	var b strings.Builder
	b.WriteString("⚙️ Settings\n\nToggle the values to display:")
	if goal, ok := application.Settings.DailyGoal(); ok {
		b.WriteString(fmt.Sprintf("\n\nDaily goal: %.0f kcal", goal))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboards.SettingsMenu(application.Preferences, application.HidingNumbers.IsHiding())
	_, err := api.Send(msg)
	return err
}
