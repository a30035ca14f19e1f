package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/editor"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
)

// historyPageSize is how many records /history shows.
const historyPageSize = 10

type Bot struct {
	mc         *Memcached[*Calculator]
	api        *tgbotapi.BotAPI
	store      history.Store
	config     *BotConfig
	angle      calc.AngleMode
	decimals   int
	histDigits int
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	logger     *log.Logger
}

func LoadBot(ctx context.Context, config *BotConfig, app *app, store history.Store) (*Bot, error) {
	api, err := connect(ctx, config.Token, app.logger)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:        api,
		store:      store,
		config:     config,
		angle:      app.config.AngleMode,
		decimals:   app.config.PreviewDecimals,
		histDigits: app.config.HistoryDecimals,
		logger:     app.logger,
		isDone:     make(chan struct{}),
		mc:         NewMemcached[*Calculator](config.SessionTTL, config.SessionCleanup),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get started.\n",
			"Note: the session expires after",
			config.SessionTTL,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open new session.",
			"/history - show your last calculations.",
			"/clear - forget your calculations.",
			"/help - send this message.",
			"",
			"SCI and STD switch the keypad, 2nd swaps the functions,",
			"deg/rad switches the angle unit.",
		}, "\n"),
	}, nil
}

// connect retries the first call to the Telegram API. A rejected token
// is not retried.
func connect(ctx context.Context, token string, logger *log.Logger) (*tgbotapi.BotAPI, error) {
	var api *tgbotapi.BotAPI
	operation := func() error {
		var err error
		api, err = tgbotapi.NewBotAPI(token)
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 401 {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Printf("failed to connect telegram, retry in %s, error: %v", next.Round(time.Millisecond), err)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.RetryNotify(operation, bo, notify); err != nil {
		return nil, err
	}
	return api, nil
}

func (b *Bot) Run() error {
	if b.isStarted.Load() {
		return ErrAlreadyStarted
	}
	b.isStarted.Store(true)
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.Offset)
	updateConfig.Timeout = b.config.Timeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.mc.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil && !errors.Is(err, ErrSessionExpired) {
				b.logger.Printf("failed to handle key, error: %v", err)
				continue
			}
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Printf("failed to send message, error: %v", err)
		}
	}

	return ErrClosed
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) createKeyboard(chatID int64, calculator *Calculator) error {
	msg := tgbotapi.NewMessage(chatID, calculator.Display(b.decimals))
	msg.ReplyMarkup = inlineKeyboard(calculator)

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, calculator *Calculator) error {
	keyboard := inlineKeyboard(calculator)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		calculator.Display(b.decimals),
		keyboard,
	)

	// Telegram rejects edits that change nothing.
	if edit.Text == callback.Message.Text && sameKeyboard(callback.Message.ReplyMarkup, keyboard) {
		return nil
	}

	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) expire(callback *tgbotapi.CallbackQuery) error {
	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		"Your session has expired, please /open a new one.",
	)
	if _, err := b.api.Send(edit); err != nil {
		return err
	}
	return ErrSessionExpired
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	if command.From == nil {
		return nil
	}
	key := sessionKey(command.Chat.ID, command.From.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch command.Command() {
	case "start":
		return b.createMessage(command.Chat.ID, b.welcome)
	case "help":
		return b.createMessage(command.Chat.ID, b.help)
	case "open":
		if _, ok := b.mc.Get(key); ok {
			return b.createMessage(
				command.Chat.ID,
				"Your session is not expired!",
			)
		}

		calculator := NewCalculator(b.angle)
		if expression := command.CommandArguments(); expression != "" {
			calculator.State = calculator.State.Load(expression)
		}
		err := b.createKeyboard(command.Chat.ID, calculator)
		if err == nil {
			b.mc.Set(key, calculator)
		}
		return err
	case "history":
		records, err := b.store.List(ctx, key)
		if err != nil {
			b.logger.Printf("failed to list history, error: %v", err)
			return b.createMessage(command.Chat.ID, "History is not available right now.")
		}
		return b.createMessage(command.Chat.ID, historyText(records, historyPageSize, b.histDigits))
	case "clear":
		if err := b.store.Clear(ctx, key); err != nil {
			b.logger.Printf("failed to clear history, error: %v", err)
			return b.createMessage(command.Chat.ID, "History is not available right now.")
		}
		return b.createMessage(command.Chat.ID, "History cleared.")
	default:
		return b.createMessage(command.Chat.ID, "Unknown command. Try /help")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return err
	}
	if callback.Message == nil {
		return nil
	}

	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)
	calculator, ok := b.mc.Get(key)
	if !ok {
		return b.expire(callback)
	}

	commit, err := calculator.Press(editor.Key(callback.Data))
	if err != nil {
		return err
	}

	if commit != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := b.store.Add(ctx, history.Record{
			Owner:      key,
			Expression: commit.Expression,
			Result:     commit.Result,
			Mode:       history.ModeCalc,
		})
		cancel()
		if err != nil {
			b.logger.Printf("failed to save history, error: %v", err)
		}
	}

	err = b.updateKeyboard(callback, calculator)
	if err == nil {
		b.mc.Set(key, calculator)
	}
	return err
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.mc.Shutdown(ctx)
	b.api.StopReceivingUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrMemcachedClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.mc.Close()
	b.api.StopReceivingUpdates()
	<-b.isDone

	if errors.Is(err, ErrMemcachedClosed) {
		return ErrClosed
	}
	return err
}

func inlineKeyboard(calculator *Calculator) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, keys := range calculator.Keypad() {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(keys))
		for _, button := range keys {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(button.Label, string(button.Key)))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sameKeyboard(current *tgbotapi.InlineKeyboardMarkup, next tgbotapi.InlineKeyboardMarkup) bool {
	if current == nil || len(current.InlineKeyboard) != len(next.InlineKeyboard) {
		return false
	}
	for i, row := range current.InlineKeyboard {
		if len(row) != len(next.InlineKeyboard[i]) {
			return false
		}
		for j, button := range row {
			if button.Text != next.InlineKeyboard[i][j].Text {
				return false
			}
		}
	}
	return true
}

// historyText lists the newest records first.
func historyText(records []history.Record, limit, decimals int) string {
	if len(records) == 0 {
		return "No calculations yet."
	}

	var b strings.Builder
	b.WriteString("History:")
	for i := len(records) - 1; i >= 0 && len(records)-i <= limit; i-- {
		r := records[i]
		result := r.Result
		if r.Mode == history.ModeCalc {
			result = numfmt.Format(result, decimals)
		}
		fmt.Fprintf(&b, "\n%s = %s", r.Expression, result)
	}
	b.WriteString("\n\nSend /open <expression> to continue from one.")
	return b.String()
}

func newBotCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the calculator keypad as a Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadBotConfig()
			if err != nil {
				a.logger.Printf("failed to load config, error: %v", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := a.openHistory(ctx)
			if err != nil {
				a.logger.Printf("failed to open history, error: %v", err)
				return err
			}
			defer store.Close()

			bot, err := LoadBot(ctx, config, a, store)
			if err != nil {
				a.logger.Printf("failed to connect telegram, error: %v", err)
				return err
			}

			failed := make(chan error, 1)
			go func() {
				a.logger.Println("starting telegram bot")
				if err := bot.Run(); !errors.Is(err, ErrClosed) {
					a.logger.Printf("failed to start telegram bot, error: %s", err)
					failed <- err
				}
				stop()
			}()

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()

			a.logger.Println("stopping telegram bot")
			if err := bot.Shutdown(shutdownCtx); err != nil {
				a.logger.Printf("failed to graceful shutdown telegram bot, error: %s", err)
			}
			a.logger.Println("telegram bot stopped")

			select {
			case err := <-failed:
				return err
			default:
				return nil
			}
		},
	}
}
