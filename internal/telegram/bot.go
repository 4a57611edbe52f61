// internal/telegram/bot.go
package telegram

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskbot/internal/bot"
)

const msgInternalError = "😔 Произошла ошибка при обработке запроса. " +
	"Пожалуйста, попробуйте еще раз или обратитесь к /help"

// Bot adapts the core engine to the Telegram Bot API: it classifies
// incoming updates into commands and free text, hands them to the
// engine, and renders Reply values as Telegram messages.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *bot.Engine
}

func New(token string, engine *bot.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("[tg] authorized as @%s", api.Self.UserName)
	return &Bot{api: api, engine: engine}, nil
}

// RunPolling drains the long-poll updates channel until the process
// exits. Each update is handled to completion before the next one is
// taken, so per-user state never sees concurrent mutation in this mode.
func (b *Bot) RunPolling() {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	log.Printf("[tg] polling for updates")
	for update := range b.api.GetUpdatesChan(cfg) {
		b.HandleUpdate(update)
	}
}

// RegisterWebhook tells Telegram to push updates to url.
func (b *Bot) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	if _, err := b.api.Request(wh); err != nil {
		return err
	}
	log.Printf("[tg] webhook registered: %s", url)
	return nil
}

// WebhookHandler serves pushed updates. Telegram retries anything but
// 200, so a malformed body is logged and acknowledged rather than
// bounced.
func (b *Bot) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			log.Printf("[tg] webhook: bad update body: %v", err)
			c.Status(http.StatusOK)
			return
		}
		b.HandleUpdate(update)
		c.Status(http.StatusOK)
	}
}

// HandleUpdate routes one update through the engine. A panic while
// handling it is contained here: logged with the update id, answered
// with a generic apology, and the loop lives on.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	m := update.Message
	if m == nil || m.From == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[tg] panic on update %d from user %d: %v", update.UpdateID, m.From.ID, r)
			b.send(m.Chat.ID, bot.Reply{Text: msgInternalError})
		}
	}()

	var reply bot.Reply
	switch {
	case m.IsCommand():
		reply = b.engine.HandleCommand(m.From.ID, m.Command(), m.From.FirstName)
	case m.Text != "":
		reply = b.engine.HandleText(m.From.ID, m.Text)
	default:
		// Stickers, photos and the like are outside the bot's world.
		return
	}
	b.send(m.Chat.ID, reply)
}

func (b *Bot) send(chatID int64, r bot.Reply) {
	if _, err := b.api.Send(buildMessage(chatID, r)); err != nil {
		log.Printf("[tg] send to chat %d: %v", chatID, err)
	}
}

// buildMessage renders a core Reply as a Telegram message: Markdown
// when asked, a one-time resized reply keyboard for constrained
// choices, or a keyboard removal.
func buildMessage(chatID int64, r bot.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case len(r.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(r.Keyboard))
		for _, row := range r.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, buttons)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = true
		msg.ReplyMarkup = keyboard
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	return msg
}
