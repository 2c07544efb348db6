package screening

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/notify"
	"solana-wallet-scout/internal/observability"
	"solana-wallet-scout/internal/storage"
)

// progressEvery controls how often a progress notification is emitted: after
// every Nth batch and always after the final one.
const progressEvery = 2

// msgNoMatches is sent when a run finishes with no qualifying wallets.
const msgNoMatches = "❌ No wallets matched your criteria."

// BatchRunner runs one batch to completion. Implemented by BatchClient.
type BatchRunner interface {
	SubmitAndAwait(ctx context.Context, batch []string, n notify.Notifier) []*domain.WalletRecord
}

// Request is one accepted wallet submission.
type Request struct {
	UserID    string
	ChatID    string
	Addresses []string
}

// Engine drives a submission through the batch client, filters the returned
// wallet records against the requester's criteria, and pushes progress and
// results through the notifier. It is invoked on its own goroutine after the
// triggering conversational turn has already been answered.
type Engine struct {
	batches BatchRunner
	history storage.RunHistoryStore // nil disables run recording
	now     func() time.Time
	logger  zerolog.Logger
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	Batches BatchRunner
	History storage.RunHistoryStore
	Now     func() time.Time // default time.Now
	Logger  zerolog.Logger
}

// NewEngine creates a new qualification engine.
func NewEngine(opts EngineOptions) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		batches: opts.Batches,
		history: opts.History,
		now:     now,
		logger:  opts.Logger,
	}
}

// Run processes the submission to completion. Batches are handled strictly
// in order; a failed batch contributes no records but never stops the loop,
// so the run always ends with a terminal notification.
func (e *Engine) Run(ctx context.Context, req Request, criteria domain.FilterCriteria, n notify.Notifier) {
	startedAt := e.now()
	batches := domain.SplitBatches(req.Addresses)
	total := len(batches)

	e.logger.Info().Str("user_id", req.UserID).Int("addresses", len(req.Addresses)).
		Int("batches", total).Msg("screening run started")
	observability.RecordRunStarted(len(req.Addresses))

	var qualified []*domain.WalletRecord
	for i, batch := range batches {
		records := e.batches.SubmitAndAwait(ctx, batch, n)

		for _, r := range records {
			ok := Qualifies(r, criteria, e.now())
			e.logger.Debug().Str("wallet", r.WalletAddress).Bool("qualifies", ok).Msg("wallet evaluated")
			if ok {
				qualified = append(qualified, r)
			}
		}

		done := i + 1
		if done%progressEvery == 0 || done == total {
			pct := int(math.Round(100 * float64(done) / float64(total)))
			e.send(ctx, n, fmt.Sprintf("🔄 Processing... %d%% complete.", pct))
		}
	}

	if len(qualified) == 0 {
		e.send(ctx, n, msgNoMatches)
	} else {
		e.send(ctx, n, BuildReport(qualified))
	}

	e.logger.Info().Str("user_id", req.UserID).Int("qualified", len(qualified)).
		Msg("screening run finished")
	observability.RecordRunFinished(len(qualified))

	e.recordRun(ctx, req, startedAt, total, qualified)
}

// recordRun archives the completed run when a history store is configured.
func (e *Engine) recordRun(ctx context.Context, req Request, startedAt time.Time, batches int, qualified []*domain.WalletRecord) {
	if e.history == nil {
		return
	}

	addrs := make([]string, 0, len(qualified))
	for _, r := range qualified {
		addrs = append(addrs, r.WalletAddress)
	}

	run := &domain.ScreeningRun{
		UserID:     req.UserID,
		ChatID:     req.ChatID,
		StartedAt:  startedAt.UnixMilli(),
		FinishedAt: e.now().UnixMilli(),
		Submitted:  len(req.Addresses),
		Batches:    batches,
		Qualified:  addrs,
	}
	if err := e.history.InsertRun(ctx, run); err != nil {
		e.logger.Warn().Err(err).Msg("record screening run failed")
	}
}

// send delivers a notification, logging delivery failures.
func (e *Engine) send(ctx context.Context, n notify.Notifier, text string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, text); err != nil {
		e.logger.Warn().Err(err).Msg("notify failed")
	}
}
