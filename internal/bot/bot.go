package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/salesbot-ocr/internal/line"
	"github.com/ironsheep/salesbot-ocr/internal/ocr"
	"github.com/ironsheep/salesbot-ocr/internal/report"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

// Messenger downloads message content and sends replies. *line.Client
// satisfies it.
type Messenger interface {
	Content(ctx context.Context, messageID string) ([]byte, error)
	Reply(ctx context.Context, replyToken string, texts ...string) error
}

// Options configures a Bot. Zero values fall back to sensible defaults.
type Options struct {
	Labels  report.Labels
	Replies Replies

	// Location is the timezone of "today" in the report title.
	Location    *time.Location
	DateFormat  string
	BuddhistEra bool

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Bot answers chat messages.
type Bot struct {
	messenger Messenger
	extractor ocr.Extractor
	parser    *report.Parser
	store     targets.Store
	formatter *report.Formatter
	replies   Replies
	opts      Options
	logger    *zap.Logger
}

// New wires a bot from its collaborators.
func New(m Messenger, ext ocr.Extractor, parser *report.Parser, store targets.Store, opts Options, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DateFormat == "" {
		opts.DateFormat = report.DefaultDateFormat
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bot{
		messenger: m,
		extractor: ext,
		parser:    parser,
		store:     store,
		formatter: report.NewFormatter(opts.Labels),
		replies:   opts.Replies.withDefaults(),
		opts:      opts,
		logger:    logger,
	}
}

// HandleWebhook processes every event of a webhook in order. Failures of one
// event do not stop the others; they are joined into the returned error.
func (b *Bot) HandleWebhook(ctx context.Context, wh *line.Webhook) error {
	var errs []error
	for _, ev := range wh.Events {
		if err := b.HandleEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleEvent answers a single event. Events that need no answer, such as
// stickers or redelivered events without a reply token, return nil.
func (b *Bot) HandleEvent(ctx context.Context, ev line.Event) error {
	log := b.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("event_type", ev.Type),
	)
	if ev.Message != nil {
		log = log.With(zap.String("message_type", ev.Message.Type), zap.String("message_id", ev.Message.ID))
	}

	if ev.ReplyToken == "" {
		log.Debug("event has no reply token")
		return nil
	}

	start := time.Now()
	reply, ok := b.respond(ctx, ev, log)
	if !ok {
		log.Debug("no reply for event")
		return nil
	}

	if err := b.messenger.Reply(ctx, ev.ReplyToken, reply); err != nil {
		log.Error("reply failed", zap.Error(err))
		return fmt.Errorf("failed to reply: %w", err)
	}
	log.Info("replied", zap.Int("reply_runes", len([]rune(reply))), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (b *Bot) respond(ctx context.Context, ev line.Event, log *zap.Logger) (string, bool) {
	switch ev.Type {
	case line.EventFollow:
		return helpText(b.replies.Help), true
	case line.EventMessage:
		if ev.Message == nil {
			return "", false
		}
		switch ev.Message.Type {
		case line.MessageImage:
			return b.handleImage(ctx, ev.Message.ID, log), true
		case line.MessageText:
			return b.handleText(ctx, ev.Message.Text, log)
		}
	}
	return "", false
}

// HandleImage downloads an image message and returns the reply text for it.
func (b *Bot) HandleImage(ctx context.Context, messageID string) string {
	return b.handleImage(ctx, messageID, b.logger)
}

func (b *Bot) handleImage(ctx context.Context, messageID string, log *zap.Logger) string {
	data, err := b.messenger.Content(ctx, messageID)
	if err != nil {
		log.Error("image download failed", zap.Error(err))
		return b.replies.DownloadFailed
	}
	log.Debug("image downloaded", zap.Int("bytes", len(data)))

	text, err := b.extractor.ExtractText(ctx, data)
	if err != nil {
		log.Error("ocr failed", zap.Error(err))
		return b.replies.OCRFailed
	}
	log.Debug("ocr done", zap.Int("text_length", len(text)))

	return b.summarize(ctx, text, log)
}

// Summarize parses OCR text and renders today's summary, or returns the
// fixed diagnostic when no table is found.
func (b *Bot) Summarize(ctx context.Context, text string) string {
	return b.summarize(ctx, text, b.logger)
}

func (b *Bot) summarize(ctx context.Context, text string, log *zap.Logger) string {
	table, err := b.parser.ParseTable(text)
	if err != nil {
		log.Info("no sales table in text", zap.Error(err))
		return b.formatter.Labels.NotFound
	}
	log.Info("table parsed", zap.String("layout", table.Layout.Name), zap.Int("records", len(table.Records)))

	t, err := b.store.Read(ctx)
	if err != nil {
		log.Error("failed to read targets", zap.Error(err))
		return b.replies.StoreFailed
	}
	return b.formatter.FormatSummary(&table.Layout, table.Records, t, b.Today())
}

// Today renders the current date the way report titles show it.
func (b *Bot) Today() string {
	return report.FormatDate(b.opts.Now().In(b.opts.Location), b.opts.DateFormat, b.opts.BuddhistEra)
}

// HandleText returns the reply to a text message. The bool is false for
// ordinary chat, which gets no reply.
func (b *Bot) HandleText(ctx context.Context, text string) (string, bool) {
	return b.handleText(ctx, text, b.logger)
}

func (b *Bot) handleText(ctx context.Context, text string, log *zap.Logger) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	name, ok := lookupCommand(fields[0])
	if !ok {
		return "", false
	}
	log.Debug("command", zap.String("command", name))

	switch name {
	case "SET":
		return b.handleSet(ctx, text, log), true
	case "TARGETS":
		return b.handleTargets(ctx, log), true
	case "HELP":
		return helpText(b.replies.Help), true
	default:
		return "", false
	}
}

func (b *Bot) handleSet(ctx context.Context, text string, log *zap.Logger) string {
	partial, ok := report.ParseSetCommand(text)
	if !ok || len(partial) == 0 {
		return b.replies.InvalidSet
	}
	if err := b.store.Upsert(ctx, partial); err != nil {
		log.Error("failed to save targets", zap.Error(err))
		return b.replies.StoreFailed
	}
	log.Info("targets saved", zap.Strings("codes", partial.Codes()))
	return b.listTargets(b.replies.Saved, partial)
}

func (b *Bot) handleTargets(ctx context.Context, log *zap.Logger) string {
	t, err := b.store.Read(ctx)
	if err != nil {
		log.Error("failed to read targets", zap.Error(err))
		return b.replies.StoreFailed
	}
	if len(t) == 0 {
		return b.replies.NoTargets
	}
	return b.listTargets(b.replies.TargetsTitle, t)
}

func (b *Bot) listTargets(title string, t targets.Map) string {
	lb := b.formatter.Labels
	var sb strings.Builder
	sb.WriteString(title)
	for _, code := range t.Codes() {
		fmt.Fprintf(&sb, "\n%s %s %s %s", lb.Department, code, report.FormatAmount(t[code]), lb.Currency)
	}
	return sb.String()
}
