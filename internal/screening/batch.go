package screening

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-scout/internal/dedge"
	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/notify"
	"solana-wallet-scout/internal/observability"
)

// DefaultPollInterval is how long the batch client waits between status
// polls while a job is processing.
const DefaultPollInterval = 15 * time.Second

// User-facing messages for batch failures.
const (
	msgRateLimited = "⚠️ The daily analysis limit has been reached. This batch returned no results; later batches will likely be affected too."
	msgBatchFailed = "⚠️ One batch could not be processed. Continuing with the remaining wallets."
)

// JobAPI is the slice of the analytics client the batch client depends on.
type JobAPI interface {
	SubmitBatch(ctx context.Context, addrs []string) (string, error)
	BatchStatus(ctx context.Context, taskID string) (*dedge.BatchStatus, error)
}

// BatchClient submits one batch of addresses as an asynchronous job and waits
// for it to finish. All failures are absorbed at this boundary: a batch that
// cannot be processed contributes an empty result and never aborts the
// submission it belongs to.
type BatchClient struct {
	api          JobAPI
	pollInterval time.Duration
	maxPolls     int // 0 = poll until the job is terminal
	logger       zerolog.Logger
}

// BatchClientOptions configures a BatchClient.
type BatchClientOptions struct {
	API          JobAPI
	PollInterval time.Duration // default DefaultPollInterval
	MaxPolls     int           // default 0: no upper bound
	Logger       zerolog.Logger
}

// NewBatchClient creates a new batch client.
func NewBatchClient(opts BatchClientOptions) *BatchClient {
	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	return &BatchClient{
		api:          opts.API,
		pollInterval: pollInterval,
		maxPolls:     opts.MaxPolls,
		logger:       opts.Logger,
	}
}

// SubmitAndAwait runs one batch to its terminal state and returns its wallet
// records, or an empty slice on any failure.
func (b *BatchClient) SubmitAndAwait(ctx context.Context, batch []string, n notify.Notifier) []*domain.WalletRecord {
	startedAt := time.Now()

	taskID, err := b.api.SubmitBatch(ctx, batch)
	if err != nil {
		b.handleTransportError(ctx, err, n)
		return nil
	}

	polls := 0
	for {
		status, err := b.api.BatchStatus(ctx, taskID)
		if err != nil {
			b.handleTransportError(ctx, err, n)
			return nil
		}

		if status.Terminal() {
			if status.Status == dedge.StatusError {
				b.handleJobError(ctx, status.Error, n)
				return nil
			}
			observability.RecordBatch(time.Since(startedAt).Seconds(), polls+1)
			return status.Results
		}

		polls++
		if b.maxPolls > 0 && polls >= b.maxPolls {
			b.logger.Warn().Str("task_id", taskID).Int("polls", polls).
				Msg("giving up on batch job, still processing")
			return nil
		}

		select {
		case <-ctx.Done():
			b.logger.Warn().Str("task_id", taskID).Msg("batch wait cancelled")
			return nil
		case <-time.After(b.pollInterval):
		}
	}
}

// handleJobError handles a job that reached the error terminal state.
// Address-validation errors only affect the offending batch and are logged;
// rate-limit errors are surfaced to the requester.
func (b *BatchClient) handleJobError(ctx context.Context, detail string, n notify.Notifier) {
	kind := dedge.Classify(detail)
	observability.RecordJobError(kind.String())

	switch kind {
	case dedge.KindAddressValidation:
		b.logger.Warn().Str("detail", detail).Msg("batch rejected: invalid address, skipping chunk")
	case dedge.KindRateLimit:
		b.logger.Warn().Str("detail", detail).Msg("batch rejected: rate limited")
		b.send(ctx, n, msgRateLimited)
	default:
		b.logger.Error().Str("detail", detail).Msg("batch job failed")
	}
}

// handleTransportError handles a failure talking to the API on submit or
// poll. The error body's detail is used for classification when present.
func (b *BatchClient) handleTransportError(ctx context.Context, err error, n notify.Notifier) {
	kind := dedge.ClassifyErr(err)
	observability.RecordJobError(kind.String())

	switch kind {
	case dedge.KindAddressValidation:
		b.logger.Warn().Err(err).Msg("batch rejected: invalid address, skipping chunk")
	case dedge.KindRateLimit:
		b.logger.Warn().Err(err).Msg("batch rejected: rate limited")
		b.send(ctx, n, msgRateLimited)
	default:
		b.logger.Error().Err(err).Msg("batch request failed")
		b.send(ctx, n, msgBatchFailed)
	}
}

// send delivers a notification, logging delivery failures instead of
// propagating them.
func (b *BatchClient) send(ctx context.Context, n notify.Notifier, text string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, text); err != nil {
		b.logger.Warn().Err(err).Msg("notify failed")
	}
}
