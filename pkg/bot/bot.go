package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/model"
)

// Loader returns the current dataset.
type Loader interface {
	Load() ([]model.FastestLapEntry, bool, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	dataset Loader
}

func New(token string, dataset Loader) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot")
	}
	// Set this to true to log all interactions with telegram servers
	api.Debug = false
	return &Bot{api: api, dataset: dataset}, nil
}

// Run handles updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Info("bot listening for updates", log.String("user", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	// Handle messages
	case update.Message != nil:
		b.handleMessage(update.Message)
	// Handle button clicks
	case update.CallbackQuery != nil:
		b.handleButton(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}
	log.Debug("command received", log.String("command", msg.Command()), log.Int64("chat", msg.Chat.ID))

	entries, ok := b.entries()
	answer := Answer{Text: "No dataset available yet"}
	if ok {
		answer = Reply(entries, msg.Command(), msg.CommandArguments())
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, codeBlock(answer.Text))
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	if markup := pagerMarkup(answer); markup != nil {
		reply.ReplyMarkup = markup
	}
	b.send(reply)
}

func (b *Bot) handleButton(query *tgbotapi.CallbackQuery) {
	// acknowledge the click so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Debug("callback answer", log.ErrorField(err))
	}
	q, page, ok := parsePagerData(query.Data)
	if !ok || query.Message == nil {
		return
	}
	entries, ok := b.entries()
	if !ok {
		return
	}
	answer := LapsPage(entries, q, page)
	msg := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, codeBlock(answer.Text))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = pagerMarkup(answer)
	b.send(msg)
}

func (b *Bot) entries() ([]model.FastestLapEntry, bool) {
	entries, _, err := b.dataset.Load()
	if err != nil && entries == nil {
		log.Warn("dataset not available", log.ErrorField(err))
		return nil, false
	}
	return entries, true
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Error("sending reply", log.ErrorField(err))
	}
}

func codeBlock(text string) string {
	return fmt.Sprintf("```\n%s```", escapeCode(text))
}
