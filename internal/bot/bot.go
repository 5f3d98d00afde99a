// Package bot is the Telegram front end: the only presentation surface, it
// drives the stores through discrete user actions and renders the derived
// aggregates.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/caloq-app/caloq/internal/ai"
	"github.com/caloq-app/caloq/internal/app"
	"github.com/caloq-app/caloq/internal/bot/keyboards"
	"github.com/caloq-app/caloq/internal/bot/menus"
	"github.com/caloq-app/caloq/internal/bot/state"
	"github.com/caloq-app/caloq/internal/history"
	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/meals"
	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/transfer"
)

// Bot wires the Telegram API to the application state.
type Bot struct {
	api         *tgbotapi.BotAPI
	app         *app.App
	suggestions *ai.SuggestionService // nil when no API key is configured
	states      *state.Manager
}

// NewBot creates the bot and authorizes against the Telegram API.
func NewBot(token string, application *app.App, suggestions *ai.SuggestionService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:         api,
		app:         application,
		suggestions: suggestions,
		states:      state.NewManager(),
	}, nil
}

// Start runs the update loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update := <-updates:
			if err := b.handleUpdate(ctx, update); err != nil {
				logger.Error("Error handling update", "error", err)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	if update.CallbackQuery != nil {
		// Answer the callback query to remove the loading state.
		callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
		if _, err := b.api.Request(callback); err != nil {
			logger.Warn("Failed to answer callback query", "error", err)
		}
		return b.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	message := update.Message

	if message.IsCommand() {
		return b.handleCommand(ctx, message)
	}
	if message.Document != nil {
		return b.handleDocument(ctx, message)
	}
	if message.Text != "" {
		return b.handleText(ctx, message)
	}
	return nil
}

func (b *Bot) send(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.states.SetUserState(userID, state.None)
		b.states.ClearTempData(userID)
		return menus.SendMainMenu(b.api, chatID)
	case "today":
		return menus.SendToday(b.api, chatID, b.app, time.Now())
	case "help":
		return b.send(chatID, `Available commands:
/start - Show the main menu
/today - Show today's totals
/help - Show this message

Logging a meal:
1. Tap "🍽️ Log a meal"
2. Pick a meal from your library and enter the weight in grams, or enter the values directly
3. The entry lands in today's log immediately`)
	default:
		return b.send(chatID, "Unknown command. Use /help to see what I understand.")
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	data := query.Data

	// Prefixed callbacks carry an argument after the colon.
	if prefix, arg, found := strings.Cut(data, ":"); found {
		switch prefix {
		case "meal_pick":
			return b.startWeightEntry(userID, chatID, arg)
		case "meal_show":
			return b.showMeal(chatID, arg)
		case "meal_up":
			b.app.Meals.MoveUp(ctx, arg)
			return menus.SendMeals(b.api, chatID, b.app)
		case "meal_rm":
			b.app.Meals.Remove(ctx, arg)
			return menus.SendMeals(b.api, chatID, b.app)
		case "pref_toggle":
			m := nutrition.Metric(arg)
			if b.app.Preferences.IsEnabled(m) {
				b.app.Preferences.Disable(ctx, m)
			} else {
				b.app.Preferences.Enable(ctx, m)
			}
			return menus.SendSettings(b.api, chatID, b.app)
		}
		return nil
	}

	switch data {
	case "main_menu":
		b.states.SetUserState(userID, state.None)
		b.states.ClearTempData(userID)
		return menus.SendMainMenu(b.api, chatID)

	case "add_entry":
		names := make([]string, 0)
		for _, meal := range b.app.Meals.Entries() {
			names = append(names, meal.Name)
		}
		return b.sendWithKeyboard(chatID, "What did you eat?",
			keyboards.AddEntryMenu(names, b.suggestions != nil))

	case "add_direct":
		b.states.SetUserState(userID, state.WaitingForValues)
		return b.send(chatID, "Enter the consumed values for:\n"+
			b.enabledPromptLine()+"\n\nSeparate the numbers with spaces. Anything unreadable counts as 0.")

	case "suggest":
		if b.suggestions == nil {
			return b.send(chatID, "Profile suggestions are not configured.")
		}
		b.states.SetUserState(userID, state.WaitingForSuggestQuery)
		return b.send(chatID, "Describe the food and I'll estimate its per-100g profile.")

	case "suggest_use":
		profile, ok := b.tempProfile(userID)
		if !ok {
			return b.send(chatID, "The suggestion expired, please start over.")
		}
		b.states.SetTempData(userID, state.TempProfile, profile)
		b.states.SetUserState(userID, state.WaitingForGrams)
		return b.send(chatID, "How many grams did you eat?")

	case "suggest_save":
		profile, ok := b.tempProfile(userID)
		name, nameOK := b.tempString(userID, state.TempSuggestedName)
		if !ok || !nameOK || name == "" {
			return b.send(chatID, "The suggestion expired, please start over.")
		}
		b.app.Meals.Add(ctx, meals.Meal{Name: name, Vector: profile})
		return menus.SendMeals(b.api, chatID, b.app)

	case "today":
		return menus.SendToday(b.api, chatID, b.app, time.Now())

	case "history":
		return menus.SendHistory(b.api, chatID, b.app, 7)

	case "stats":
		return menus.SendStats(b.api, chatID, b.app, time.Now())

	case "meals":
		return menus.SendMeals(b.api, chatID, b.app)

	case "meal_add":
		b.states.SetUserState(userID, state.WaitingForMealDefinition)
		return b.send(chatID, "Send the new meal as:\n\nName: kcal protein sugar fat fiber carbs\n\nValues are per 100g, e.g.\nOatmeal: 372 14 1 7 10 59")

	case "settings":
		return menus.SendSettings(b.api, chatID, b.app)

	case "hide_toggle":
		b.app.HidingNumbers.Toggle(ctx)
		return menus.SendSettings(b.api, chatID, b.app)

	case "goal_set":
		b.states.SetUserState(userID, state.WaitingForGoal)
		return b.send(chatID, "Send your daily kcal goal, or \"none\" to clear it. Changing it also clears any goal set just for today.")

	case "goal_today":
		b.states.SetUserState(userID, state.WaitingForTodaysGoal)
		return b.send(chatID, "Send a kcal goal that applies only to today.")

	case "apply_rebalance":
		now := time.Now()
		if target, ok := b.app.RebalanceSuggestion(now); ok {
			b.app.Settings.SetTodaysGoal(ctx, target, now)
			return b.sendWithKeyboard(chatID,
				fmt.Sprintf("Done. Today's goal is %.0f kcal.", target),
				keyboards.BackToMainMenu())
		}
		return menus.SendToday(b.api, chatID, b.app, now)

	case "export":
		return b.handleExport(chatID)

	case "import":
		b.states.SetUserState(userID, state.WaitingForImportFile)
		return b.send(chatID, "Send me a previously exported data.json file.")

	case "confirm_add":
		entry, ok := b.pendingEntry(userID)
		if !ok {
			return b.send(chatID, "Nothing pending, please start over.")
		}
		b.states.ClearTempData(userID)
		b.states.SetUserState(userID, state.None)
		b.app.History.Add(ctx, entry)
		return b.sendWithKeyboard(chatID, "✅ Added.", keyboards.BackToMainMenu())

	case "cancel_add":
		b.states.ClearTempData(userID)
		b.states.SetUserState(userID, state.None)
		return menus.SendMainMenu(b.api, chatID)
	}

	return nil
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch b.states.GetUserState(userID) {
	case state.WaitingForGrams:
		profile, ok := b.selectedProfile(userID)
		if !ok {
			b.states.SetUserState(userID, state.None)
			return b.send(chatID, "That meal is gone from your library, please start over.")
		}
		grams := nutrition.ParseAmount(text)
		consumed := nutrition.AmountsForWeight(profile, grams)
		return b.finishEntry(ctx, userID, chatID, consumed)

	case state.WaitingForValues:
		consumed := b.parseDirectValues(text)
		return b.finishEntry(ctx, userID, chatID, consumed)

	case state.WaitingForMealDefinition:
		name, rest, found := strings.Cut(text, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return b.send(chatID, "I couldn't read that. Use the form\n\nName: kcal protein sugar fat fiber carbs")
		}
		b.app.Meals.Add(ctx, meals.Meal{Name: name, Vector: parseProfileLine(rest)})
		b.states.SetUserState(userID, state.None)
		return menus.SendMeals(b.api, chatID, b.app)

	case state.WaitingForGoal:
		b.states.SetUserState(userID, state.None)
		if strings.EqualFold(text, "none") {
			b.app.Settings.SetDailyGoal(ctx, nil)
			return b.sendWithKeyboard(chatID, "Daily goal cleared.", keyboards.BackToMainMenu())
		}
		goal := nutrition.ParseAmount(text)
		b.app.Settings.SetDailyGoal(ctx, &goal)
		return b.sendWithKeyboard(chatID,
			fmt.Sprintf("Daily goal set to %.0f kcal.", goal),
			keyboards.BackToMainMenu())

	case state.WaitingForTodaysGoal:
		b.states.SetUserState(userID, state.None)
		goal := nutrition.ParseAmount(text)
		b.app.Settings.SetTodaysGoal(ctx, goal, time.Now())
		return b.sendWithKeyboard(chatID,
			fmt.Sprintf("Today's goal set to %.0f kcal.", goal),
			keyboards.BackToMainMenu())

	case state.WaitingForSuggestQuery:
		return b.handleSuggestQuery(ctx, userID, chatID, text)

	default:
		return b.send(chatID, "Please use the menu to choose an action, or /start to bring it up.")
	}
}

// startWeightEntry begins the by-weight flow for a library meal.
func (b *Bot) startWeightEntry(userID, chatID int64, mealName string) error {
	profile, ok := b.app.Meals.Get(mealName)
	if !ok {
		return b.send(chatID, "That meal is gone from your library.")
	}
	b.states.SetTempData(userID, state.TempSelectedMeal, mealName)
	b.states.SetTempData(userID, state.TempProfile, profile)
	b.states.SetUserState(userID, state.WaitingForGrams)
	return b.send(chatID, fmt.Sprintf("How many grams of %s did you eat?", mealName))
}

// finishEntry runs the goal check and either logs the entry or asks for
// acknowledgement first.
func (b *Bot) finishEntry(ctx context.Context, userID, chatID int64, consumed nutrition.Vector) error {
	now := time.Now()
	entry := history.NewEntry(consumed, now)

	if status, ok := b.app.TodayGoalStatus(now); ok && status.Exceeded {
		b.states.SetTempData(userID, state.TempPendingEntry, entry)
		return b.sendWithKeyboard(chatID,
			fmt.Sprintf("⚠️ You've already reached today's goal (%.0f of %.0f kcal).\n\nThis would add: %s",
				status.Consumed, status.Goal, b.previewLine(consumed)),
			keyboards.ConfirmAddMenu())
	}

	b.states.ClearTempData(userID)
	b.states.SetUserState(userID, state.None)
	b.app.History.Add(ctx, entry)
	return b.sendWithKeyboard(chatID,
		"✅ Added: "+b.previewLine(consumed),
		keyboards.BackToMainMenu())
}

func (b *Bot) handleSuggestQuery(ctx context.Context, userID, chatID int64, query string) error {
	b.states.SetUserState(userID, state.None)

	suggestion, err := b.suggestions.SuggestProfile(ctx, query)
	if err != nil {
		logger.Error("Profile suggestion failed", "error", err)
		return b.send(chatID, "Sorry, I couldn't estimate that one. Please try again.")
	}

	profile := suggestion.Profile()
	b.states.SetTempData(userID, state.TempProfile, profile)
	b.states.SetTempData(userID, state.TempSuggestedName, suggestion.Name)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Use for an entry", "suggest_use"),
			tgbotapi.NewInlineKeyboardButtonData("💾 Save to meals", "suggest_save"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
	return b.sendWithKeyboard(chatID,
		fmt.Sprintf("%s (per 100g, confidence %s):\n%s",
			suggestion.Name, suggestion.Confidence, b.previewLine(profile)),
		keyboard)
}

func (b *Bot) showMeal(chatID int64, name string) error {
	profile, ok := b.app.Meals.Get(name)
	if !ok {
		return b.send(chatID, "That meal is gone from your library.")
	}
	return b.send(chatID, fmt.Sprintf("%s (per 100g):\n%s", name, b.previewLine(profile)))
}

func (b *Bot) handleExport(chatID int64) error {
	var buf bytes.Buffer
	if err := b.app.Transfer.ExportTo(&buf); err != nil {
		logger.Error("Export failed", "error", err)
		return b.send(chatID, "Export failed, nothing was written.")
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  transfer.ExportFileName,
		Bytes: buf.Bytes(),
	})
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send export file: %w", err)
	}
	return nil
}

func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	if b.states.GetUserState(userID) != state.WaitingForImportFile {
		return b.send(chatID, "If you want to import data, open Settings and tap Import first.")
	}
	b.states.SetUserState(userID, state.None)

	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: message.Document.FileID})
	if err != nil {
		logger.Error("Import download failed", "error", err)
		return b.send(chatID, "Failed to import: couldn't fetch the file.")
	}

	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		logger.Error("Import download failed", "error", err)
		return b.send(chatID, "Failed to import: couldn't fetch the file.")
	}
	defer resp.Body.Close()

	result, err := b.app.Transfer.Import(ctx, resp.Body)
	if err != nil {
		logger.Error("Import failed", "error", err)
		return b.send(chatID, "Failed to import: the file doesn't look like a caloq export. Nothing was changed.")
	}

	return b.sendWithKeyboard(chatID,
		fmt.Sprintf("Imported %d new history entries and %d new meals.", result.NewEntries, result.NewMeals),
		keyboards.BackToMainMenu())
}

// enabledPromptLine names the enabled metrics in entry order for the direct
// input prompt.
func (b *Bot) enabledPromptLine() string {
	var parts []string
	for _, m := range b.app.Preferences.Enabled() {
		parts = append(parts, m.Label())
	}
	return strings.Join(parts, ", ")
}

// parseDirectValues maps whitespace-separated numbers onto the enabled
// metrics in order; disabled metrics stay 0.
func (b *Bot) parseDirectValues(text string) nutrition.Vector {
	fields := strings.Fields(text)
	var out nutrition.Vector
	for i, m := range b.app.Preferences.Enabled() {
		if i >= len(fields) {
			break
		}
		out.Set(m, nutrition.ParseAmount(fields[i]))
	}
	return out.Rounded()
}

// parseProfileLine reads the six per-100g values in canonical metric order.
func parseProfileLine(text string) nutrition.Vector {
	fields := strings.Fields(text)
	var out nutrition.Vector
	for i, m := range nutrition.Metrics() {
		if i >= len(fields) {
			break
		}
		out.Set(m, nutrition.ParseAmount(fields[i]))
	}
	return out
}

// previewLine renders amounts over the enabled metrics, e.g.
// "186 kcal • 7g protein".
func (b *Bot) previewLine(v nutrition.Vector) string {
	hiding := b.app.HidingNumbers.IsHiding()
	var parts []string
	for _, m := range b.app.Preferences.Enabled() {
		value := fmt.Sprintf("%.0f", v.Value(m))
		if hiding {
			value = "X"
		}
		parts = append(parts, menus.FormatVectorLine(value, m))
	}
	return strings.Join(parts, " • ")
}

func (b *Bot) selectedProfile(userID int64) (nutrition.Vector, bool) {
	return b.tempProfile(userID)
}

func (b *Bot) tempProfile(userID int64) (nutrition.Vector, bool) {
	raw, ok := b.states.GetTempData(userID, state.TempProfile)
	if !ok {
		return nutrition.Vector{}, false
	}
	profile, ok := raw.(nutrition.Vector)
	return profile, ok
}

func (b *Bot) tempString(userID int64, key string) (string, bool) {
	raw, ok := b.states.GetTempData(userID, key)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func (b *Bot) pendingEntry(userID int64) (history.Entry, bool) {
	raw, ok := b.states.GetTempData(userID, state.TempPendingEntry)
	if !ok {
		return history.Entry{}, false
	}
	entry, ok := raw.(history.Entry)
	return entry, ok
}
