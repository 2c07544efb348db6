// Package bot routes conversational commands to the configuration wizard and
// the screening pipeline. It owns per-user conversation state; everything
// durable lives in the stores.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/notify"
	"solana-wallet-scout/internal/observability"
	"solana-wallet-scout/internal/screening"
	"solana-wallet-scout/internal/solanaaddr"
	"solana-wallet-scout/internal/storage"
	"solana-wallet-scout/internal/transport"
	"solana-wallet-scout/internal/wizard"
)

const (
	msgNeedConfig    = "You need to configure your criteria first. Use /configure to get started."
	msgSendWallets   = "Please send the list of wallets, one address per line."
	msgReceived      = "Got your wallets. This may take a few minutes while the data is processed."
	msgEmptyList     = "That message contained no addresses. Send at least one wallet, one per line."
	msgSaveFailed    = "Your settings could not be saved. Please try /configure again later."
	msgNoSettings    = "You have no criteria configured. Use /configure to start."
	msgNoHistory     = "Run history is not enabled on this instance."
	msgHistoryEmpty  = "No screening runs recorded yet."
	msgCriteriaSaved = "Criteria saved!\n\n"
	msgHint          = "Use /screen to analyze wallets, /configure to set your criteria, or /help for the full list."

	msgHelp = "Commands:\n" +
		"/screen – analyze a list of wallets against your criteria\n" +
		"/configure – set up your filter criteria\n" +
		"/settings – show your current criteria\n" +
		"/history – show your recent screening runs\n" +
		"/help – this message"
)

// session is the transient per-user conversation state.
type session struct {
	wizard          *wizard.Session // non-nil while the configuration wizard runs
	awaitingWallets bool            // true between /screen and the wallet list
}

// Bot consumes transport updates and dispatches them.
type Bot struct {
	transport transport.Transport
	criteria  storage.CriteriaStore
	history   storage.RunHistoryStore // nil disables /history
	engine    *screening.Engine
	logger    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session // keyed by user ID

	runs sync.WaitGroup // in-flight screening runs
}

// Options configures a Bot.
type Options struct {
	Transport transport.Transport
	Criteria  storage.CriteriaStore
	History   storage.RunHistoryStore
	Engine    *screening.Engine
	Logger    zerolog.Logger
}

// New creates a new Bot.
func New(opts Options) *Bot {
	return &Bot{
		transport: opts.Transport,
		criteria:  opts.Criteria,
		history:   opts.History,
		engine:    opts.Engine,
		logger:    opts.Logger,
		sessions:  make(map[string]*session),
	}
}

// Run consumes updates until ctx is cancelled, then waits for in-flight
// screening runs to observe the cancellation.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.transport.Updates(ctx)
	if err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	for msg := range updates {
		b.handle(ctx, msg)
	}

	b.runs.Wait()
	return ctx.Err()
}

// handle dispatches one inbound message.
func (b *Bot) handle(ctx context.Context, msg transport.Message) {
	observability.RecordMessageReceived()
	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		cmd := strings.ToLower(strings.Fields(text)[0])
		// Telegram group chats address commands as /cmd@BotName.
		if at := strings.Index(cmd, "@"); at >= 0 {
			cmd = cmd[:at]
		}
		b.handleCommand(ctx, msg, cmd)
		return
	}

	sess := b.session(msg.UserID)

	switch {
	case sess.wizard != nil:
		b.handleWizardReply(ctx, msg, sess)
	case sess.awaitingWallets:
		b.handleSubmission(ctx, msg, sess)
	default:
		b.reply(ctx, msg.ChatID, msgHint)
	}
}

// handleCommand starts or resets a flow. Any command abandons whatever flow
// was in progress for that user.
func (b *Bot) handleCommand(ctx context.Context, msg transport.Message, cmd string) {
	sess := b.session(msg.UserID)
	sess.wizard = nil
	sess.awaitingWallets = false

	switch cmd {
	case "/screen":
		if _, err := b.getCriteria(ctx, msg.UserID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				b.reply(ctx, msg.ChatID, msgNeedConfig)
			} else {
				b.logger.Error().Err(err).Msg("read criteria failed")
				b.reply(ctx, msg.ChatID, msgSaveFailed)
			}
			return
		}
		sess.awaitingWallets = true
		b.reply(ctx, msg.ChatID, msgSendWallets)

	case "/configure":
		sess.wizard = wizard.NewSession()
		b.reply(ctx, msg.ChatID, sess.wizard.Start())

	case "/settings":
		c, err := b.getCriteria(ctx, msg.UserID)
		if err != nil {
			b.reply(ctx, msg.ChatID, msgNoSettings)
			return
		}
		b.reply(ctx, msg.ChatID, "Your current configuration:\n\n"+c.String())

	case "/history":
		b.handleHistory(ctx, msg)

	case "/help", "/start":
		b.reply(ctx, msg.ChatID, msgHelp)

	default:
		b.reply(ctx, msg.ChatID, msgHint)
	}
}

// handleWizardReply feeds one answer to the user's wizard session and
// persists the record when the final step completes.
func (b *Bot) handleWizardReply(ctx context.Context, msg transport.Message, sess *session) {
	reply, done := sess.wizard.Input(msg.Text)
	if !done {
		b.reply(ctx, msg.ChatID, reply)
		return
	}

	criteria := sess.wizard.Criteria()
	sess.wizard = nil

	if err := b.criteria.Set(ctx, msg.UserID, criteria); err != nil {
		b.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("persist criteria failed")
		b.reply(ctx, msg.ChatID, msgSaveFailed)
		return
	}
	b.reply(ctx, msg.ChatID, msgCriteriaSaved+criteria.String())
}

// handleSubmission accepts the wallet list, answers immediately, and starts
// the screening run detached from this turn.
func (b *Bot) handleSubmission(ctx context.Context, msg transport.Message, sess *session) {
	sess.awaitingWallets = false

	criteria, err := b.getCriteria(ctx, msg.UserID)
	if err != nil {
		b.reply(ctx, msg.ChatID, msgNeedConfig)
		return
	}

	addrs := domain.ParseSubmission(msg.Text)
	if len(addrs) == 0 {
		sess.awaitingWallets = true
		b.reply(ctx, msg.ChatID, msgEmptyList)
		return
	}

	if suspect := solanaaddr.CountSuspect(addrs); suspect > 0 {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(
			"⚠️ %d of %d lines do not look like Solana wallet addresses. They will be submitted anyway.",
			suspect, len(addrs)))
	}

	b.reply(ctx, msg.ChatID, msgReceived)

	req := screening.Request{
		UserID:    msg.UserID,
		ChatID:    msg.ChatID,
		Addresses: addrs,
	}
	n := b.chatNotifier(msg.ChatID)

	b.runs.Add(1)
	go func() {
		defer b.runs.Done()
		b.engine.Run(ctx, req, criteria, n)
	}()
}

// handleHistory renders the user's recent screening runs.
func (b *Bot) handleHistory(ctx context.Context, msg transport.Message) {
	if b.history == nil {
		b.reply(ctx, msg.ChatID, msgNoHistory)
		return
	}

	runs, err := b.history.RecentRuns(ctx, msg.UserID, 5)
	if err != nil {
		b.logger.Error().Err(err).Msg("read run history failed")
		b.reply(ctx, msg.ChatID, msgHistoryEmpty)
		return
	}
	if len(runs) == 0 {
		b.reply(ctx, msg.ChatID, msgHistoryEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString("Your recent screening runs:\n")
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("\n%s – %d wallets in %d batches, %d qualified",
			time.UnixMilli(run.StartedAt).UTC().Format("2006-01-02 15:04"),
			run.Submitted, run.Batches, len(run.Qualified)))
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

// session returns the state for a user, creating it if needed.
func (b *Bot) session(userID string) *session {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[userID]
	if !ok {
		s = &session{}
		b.sessions[userID] = s
	}
	return s
}

func (b *Bot) getCriteria(ctx context.Context, userID string) (domain.FilterCriteria, error) {
	return b.criteria.Get(ctx, userID)
}

// chatNotifier binds the transport to one conversation for the detached run.
func (b *Bot) chatNotifier(chatID string) notify.Notifier {
	return notify.Func(func(ctx context.Context, text string) error {
		err := b.transport.Send(ctx, chatID, text)
		observability.RecordMessageSent(err)
		return err
	})
}

// reply sends a message, logging delivery failures.
func (b *Bot) reply(ctx context.Context, chatID, text string) {
	err := b.transport.Send(ctx, chatID, text)
	observability.RecordMessageSent(err)
	if err != nil {
		b.logger.Warn().Err(err).Str("chat_id", chatID).Msg("send reply failed")
	}
}
