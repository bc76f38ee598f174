package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fperezb/diet-agent-telegram/models"
	"github.com/fperezb/diet-agent-telegram/services"
	"github.com/fperezb/diet-agent-telegram/utils"
)

// Bot is the Telegram gateway. It owns no nutrition state of its own: every
// command is a thin translation between Telegram updates and the tracker,
// goal, and report services.
type Bot struct {
	api     *tgbotapi.BotAPI
	tracker *services.TrackerService
	goals   *services.GoalService
	reports *services.ReportService
	vision  *services.VisionService
	photos  *utils.PhotoArchive
	allowed map[int64]bool
	client  *http.Client
}

func New(
	token string,
	tracker *services.TrackerService,
	goals *services.GoalService,
	reports *services.ReportService,
	vision *services.VisionService,
	photos *utils.PhotoArchive,
	allowed map[int64]bool,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	log.Printf("bot: authorized as @%s", api.Self.UserName)

	return &Bot{
		api:     api,
		tracker: tracker,
		goals:   goals,
		reports: reports,
		vision:  vision,
		photos:  photos,
		allowed: allowed,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// RunPolling consumes updates over long polling until ctx is cancelled.
// Used when no WEBHOOK_URL is configured.
func (b *Bot) RunPolling(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	log.Println("bot: polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.ProcessUpdate(ctx, update)
		}
	}
}

// SetWebhook registers baseURL/webhook with Telegram.
func (b *Bot) SetWebhook(baseURL string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(baseURL, "/") + "/webhook")
	if err != nil {
		return err
	}
	_, err = b.api.Request(wh)
	return err
}

// ProcessUpdate handles one Telegram update end to end.
func (b *Bot) ProcessUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID := msg.From.ID

	if !b.isAuthorized(userID) {
		log.Printf("bot: unauthorized user %d (@%s)", userID, msg.From.UserName)
		b.reply(msg, renderUnauthorized(userID))
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	default:
		b.reply(msg, "📸 Por favor, envía una foto de tu comida para analizarla.\nSi necesitas ayuda, usa /help")
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	switch msg.Command() {
	case "start":
		b.reply(msg, renderWelcome())
	case "help":
		b.reply(msg, renderHelp())
	case "stats":
		stats, err := b.tracker.DailyStats(userID)
		if err != nil {
			log.Printf("bot: daily stats failed for user %d: %v", userID, err)
			b.reply(msg, renderTryAgain())
			return
		}
		b.reply(msg, renderDailyStats(stats))
	case "meta":
		b.handleSetGoal(msg)
	case "reporte":
		month := parseMonthArg(msg.CommandArguments())
		b.reply(msg, renderMonthlyReport(b.reports.Monthly(userID, month)))
	case "borrar":
		count, err := b.tracker.EraseUser(userID)
		if err != nil {
			log.Printf("bot: erase failed for user %d: %v", userID, err)
			b.reply(msg, renderTryAgain())
			return
		}
		b.reply(msg, fmt.Sprintf("🗑️ Listo. Eliminé %d comidas registradas y tu configuración de meta.", count))
	default:
		b.reply(msg, "Comando no reconocido. Usa /help para ver los comandos disponibles.")
	}
}

func (b *Bot) handleSetGoal(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg, fmt.Sprintf("Uso: /meta <calorías> [mantener|bajar|subir]\nEjemplo: /meta 2000 mantener\nRango válido: %d-%d kcal.",
			services.GoalMinCalories, services.GoalMaxCalories))
		return
	}

	calories, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(msg, "La meta debe ser un número de calorías, por ejemplo: /meta 2000")
		return
	}

	objective := ""
	if len(args) > 1 {
		objective = parseObjective(args[1])
	}

	if err := b.goals.SetGoal(msg.From.ID, calories, objective); err != nil {
		if errors.Is(err, services.ErrGoalOutOfRange) {
			b.reply(msg, "❌ "+err.Error())
			return
		}
		log.Printf("bot: set goal failed for user %d: %v", msg.From.ID, err)
		b.reply(msg, renderTryAgain())
		return
	}
	b.reply(msg, fmt.Sprintf("🎯 Meta guardada: %d kcal al día. Te avisaré cuando una comida te acerque al límite.", calories))
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	processing, _ := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID,
		"🧠 Analizando tu comida... \n⏳ Esto puede tomar unos segundos"))

	// Highest-resolution rendition is last.
	photo := msg.Photo[len(msg.Photo)-1]
	imageData, err := b.downloadPhoto(ctx, photo.FileID)
	if err != nil {
		log.Printf("bot: photo download failed for user %d: %v", userID, err)
		b.editOrReply(msg, processing, renderTryAgain())
		return
	}

	analysis, err := b.vision.Analyze(ctx, imageData, msg.Caption)
	if err != nil {
		if errors.Is(err, services.ErrNoFoodDetected) {
			b.editOrReply(msg, processing, "❌ No pude identificar comida en esta imagen.\nPor favor, intenta con una foto más clara de tu comida.")
		} else {
			log.Printf("bot: analysis failed for user %d: %v", userID, err)
			b.editOrReply(msg, processing, "🚫 Ocurrió un error al analizar la imagen.\nPor favor, intenta nuevamente.")
		}
		return
	}

	// Archive is best-effort; the Telegram file id still identifies the photo.
	photoRef := photo.FileID
	if key, err := b.photos.UploadMealPhoto(ctx, userID, imageData); err != nil {
		log.Printf("bot: photo archive failed for user %d: %v", userID, err)
	} else if key != "" {
		photoRef = key
	}

	result, err := b.tracker.RecordMeal(userID, analysis, photoRef)
	if err != nil {
		log.Printf("bot: record meal failed for user %d: %v", userID, err)
		b.editOrReply(msg, processing, renderTryAgain())
		return
	}

	b.deleteMessage(msg.Chat.ID, processing.MessageID)
	b.reply(msg, renderMealAnalysis(analysis, result))
}

func (b *Bot) downloadPhoto(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) isAuthorized(userID int64) bool {
	if len(b.allowed) == 0 {
		return true
	}
	return b.allowed[userID]
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(out); err != nil {
		// Markdown can break on user-supplied food names; retry plain.
		out.ParseMode = ""
		if _, err := b.api.Send(out); err != nil {
			log.Printf("bot: send failed for chat %d: %v", msg.Chat.ID, err)
		}
	}
}

func (b *Bot) editOrReply(msg *tgbotapi.Message, processing tgbotapi.Message, text string) {
	if processing.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, processing.MessageID, text)
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	b.reply(msg, text)
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	_, _ = b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
}

// parseMonthArg accepts "YYYY-MM"; anything else means the current month.
func parseMonthArg(arg string) time.Time {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01", arg, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseObjective(word string) string {
	switch strings.ToLower(word) {
	case "bajar", "perder", "lose":
		return models.WeightObjectiveLose
	case "subir", "ganar", "gain":
		return models.WeightObjectiveGain
	case "mantener", "maintain":
		return models.WeightObjectiveMaintain
	}
	return ""
}
