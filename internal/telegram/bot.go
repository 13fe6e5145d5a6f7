// Package telegram is the bot's only transport. It long-polls for updates,
// runs each one through the pipeline under a bounded worker pool, and sends
// exactly one reply per inbound message.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"scanlate/internal/config"
	"scanlate/internal/domain"
	"scanlate/internal/events"
	"scanlate/internal/pipeline"
	"scanlate/internal/settings"
)

// updateTimeout bounds one update end to end, including OCR and LLM calls.
const updateTimeout = 90 * time.Second

// maxMessageLen is Telegram's hard limit per sendMessage, minus headroom
// for the chunk marker.
const maxMessageLen = 4000

// Bot owns the Telegram session and dispatches updates to the pipeline.
type Bot struct {
	api   *tgbotapi.BotAPI
	coord *pipeline.Coordinator
	store *settings.Store
	cfg   *config.Config
	http  *http.Client
	log   zerolog.Logger
}

// New authenticates with Telegram and returns a Bot ready to Run.
func New(cfg *config.Config, coord *pipeline.Coordinator, store *settings.Store, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram authentication failed: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("authorized with telegram")

	return &Bot{
		api:   api,
		coord: coord,
		store: store,
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.NetworkTimeout},
		log:   log,
	}, nil
}

// Run long-polls until ctx is cancelled. Updates are handled concurrently,
// capped at MaxConcurrentUpdates in flight.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	g := &errgroup.Group{}
	g.SetLimit(b.cfg.MaxConcurrentUpdates)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			g.Go(func() error {
				b.handleMessage(ctx, msg)
				return nil
			})
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	// Installed before any message field is touched, so a malformed update
	// can never take down the worker goroutine.
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Int("message_id", msg.MessageID).Msg("update handler panicked")
			b.send(msg.Chat.ID, 0, domain.Outbound{Text: "Something went wrong processing that message. Please try again.", Format: domain.FormatPlain})
		}
	}()

	userID := senderID(msg)
	requestID := uuid.NewString()
	ctx = events.WithMeta(ctx, events.Meta{UserID: userID, RequestID: requestID})
	log := b.log.With().Int64("user_id", userID).Str("request_id", requestID).Logger()

	us := b.store.Get(userID)

	var out domain.Outbound
	switch {
	case msg.IsCommand():
		out = b.handleCommand(msg, us)
	case len(msg.Photo) > 0:
		log.Info().Int("sizes", len(msg.Photo)).Msg("photo received")
		out = b.handlePhoto(ctx, msg, us)
	case msg.Document != nil:
		log.Info().Str("file_name", msg.Document.FileName).Msg("document received")
		out = b.handleDocument(ctx, msg, us)
	case msg.Text != "":
		out = b.coord.HandleText(ctx, msg.Text, us)
	default:
		out = domain.Outbound{Text: "Send me a photo with text, or a text message to translate. /help lists the commands.", Format: domain.FormatPlain}
	}

	b.send(msg.Chat.ID, msg.MessageID, out)
}

// senderID keys settings and events. Anonymous senders (channel posts,
// anonymous group admins) carry no From; the chat stands in.
func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, us settings.UserSettings) domain.Outbound {
	// Telegram orders PhotoSize ascending; the last entry is the original.
	ps := msg.Photo[len(msg.Photo)-1]
	if int64(ps.FileSize) > b.cfg.MaxImageSize {
		return domain.Outbound{
			Text:   fmt.Sprintf("The image is too large (%d bytes, limit %d). Please send a smaller one.", ps.FileSize, b.cfg.MaxImageSize),
			Format: domain.FormatPlain,
		}
	}

	data, err := b.downloadFile(ctx, ps.FileID)
	if err != nil {
		b.log.Warn().Err(err).Msg("photo download failed")
		return domain.Outbound{Text: "I could not download that photo from Telegram. Please try again.", Format: domain.FormatPlain}
	}
	return b.coord.HandleImage(ctx, data, msg.Caption, us)
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, us settings.UserSettings) domain.Outbound {
	doc := msg.Document
	ext := filepath.Ext(doc.FileName)
	if !b.cfg.FormatSupported(ext) {
		return domain.Outbound{
			Text:   fmt.Sprintf("I can't read %q files. Supported image formats: %v.", ext, b.cfg.SupportedFormats),
			Format: domain.FormatPlain,
		}
	}
	if int64(doc.FileSize) > b.cfg.MaxImageSize {
		return domain.Outbound{
			Text:   fmt.Sprintf("The file is too large (%d bytes, limit %d).", doc.FileSize, b.cfg.MaxImageSize),
			Format: domain.FormatPlain,
		}
	}

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		b.log.Warn().Err(err).Msg("document download failed")
		return domain.Outbound{Text: "I could not download that file from Telegram. Please try again.", Format: domain.FormatPlain}
	}
	return b.coord.HandleImage(ctx, data, msg.Caption, us)
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getFile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	// LimitReader guards against a size Telegram did not report up front.
	data, err := io.ReadAll(io.LimitReader(resp.Body, b.cfg.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if int64(len(data)) > b.cfg.MaxImageSize {
		return nil, fmt.Errorf("file exceeds %d bytes", b.cfg.MaxImageSize)
	}
	return data, nil
}

func (b *Bot) send(chatID int64, replyTo int, out domain.Outbound) {
	for _, chunk := range splitMessage(out.Text, maxMessageLen) {
		m := tgbotapi.NewMessage(chatID, chunk)
		if out.Format == domain.FormatRich && replyTo != 0 {
			m.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(m); err != nil {
			b.log.Error().Err(err).Int64("chat_id", chatID).Msg("sendMessage failed")
			return
		}
		// Only the first chunk replies to the source message.
		replyTo = 0
	}
}
