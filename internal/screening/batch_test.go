package screening

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-scout/internal/dedge"
	"solana-wallet-scout/internal/domain"
)

// fakeJobAPI scripts one batch job.
type fakeJobAPI struct {
	submitErr error
	statuses  []*dedge.BatchStatus // returned in sequence
	statusErr error                // returned after statuses run out

	submits int
	polls   int
}

func (f *fakeJobAPI) SubmitBatch(_ context.Context, _ []string) (string, error) {
	f.submits++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "task-1", nil
}

func (f *fakeJobAPI) BatchStatus(_ context.Context, _ string) (*dedge.BatchStatus, error) {
	if f.polls < len(f.statuses) {
		s := f.statuses[f.polls]
		f.polls++
		return s, nil
	}
	f.polls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &dedge.BatchStatus{Status: dedge.StatusProcessing}, nil
}

func newTestBatchClient(api JobAPI, maxPolls int) *BatchClient {
	return NewBatchClient(BatchClientOptions{
		API:          api,
		PollInterval: time.Millisecond,
		MaxPolls:     maxPolls,
		Logger:       zerolog.Nop(),
	})
}

func TestBatchClient_PollsUntilCompleted(t *testing.T) {
	want := []*domain.WalletRecord{{WalletAddress: "w1"}}
	api := &fakeJobAPI{
		statuses: []*dedge.BatchStatus{
			{Status: dedge.StatusProcessing},
			{Status: dedge.StatusProcessing},
			{Status: dedge.StatusCompleted, Results: want},
		},
	}

	got := newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"w1"}, &recorder{})

	if len(got) != 1 || got[0].WalletAddress != "w1" {
		t.Fatalf("expected 1 record, got %v", got)
	}
	if api.polls != 3 {
		t.Errorf("expected 3 polls, got %d", api.polls)
	}
}

func TestBatchClient_AddressError_NoNotify(t *testing.T) {
	api := &fakeJobAPI{
		statuses: []*dedge.BatchStatus{
			{Status: dedge.StatusError, Error: "invalid wallet address in batch"},
		},
	}
	rec := &recorder{}

	got := newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"bad"}, rec)

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if len(rec.messages()) != 0 {
		t.Errorf("address errors must not notify the user, got %v", rec.messages())
	}
}

func TestBatchClient_RateLimit_NotifiesOnce(t *testing.T) {
	api := &fakeJobAPI{
		statuses: []*dedge.BatchStatus{
			{Status: dedge.StatusError, Error: "daily limit of requests exceeded"},
		},
	}
	rec := &recorder{}

	got := newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"w1"}, rec)

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	msgs := rec.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "daily analysis limit") {
		t.Errorf("expected one rate-limit advisory, got %v", msgs)
	}
}

func TestBatchClient_GenericJobError_NoNotify(t *testing.T) {
	api := &fakeJobAPI{
		statuses: []*dedge.BatchStatus{
			{Status: dedge.StatusError, Error: "internal processing failure"},
		},
	}
	rec := &recorder{}

	newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"w1"}, rec)

	if len(rec.messages()) != 0 {
		t.Errorf("generic job errors are logged, not notified, got %v", rec.messages())
	}
}

func TestBatchClient_TransportFailure_NotifiesGeneric(t *testing.T) {
	api := &fakeJobAPI{submitErr: errors.New("connection refused")}
	rec := &recorder{}

	got := newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"w1"}, rec)

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	msgs := rec.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "could not be processed") {
		t.Errorf("expected generic failure advisory, got %v", msgs)
	}
}

func TestBatchClient_TransportRateLimit_Classified(t *testing.T) {
	api := &fakeJobAPI{
		submitErr: &dedge.APIError{StatusCode: 429, Detail: "Rate limit exceeded for today"},
	}
	rec := &recorder{}

	newTestBatchClient(api, 0).SubmitAndAwait(context.Background(), []string{"w1"}, rec)

	msgs := rec.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "daily analysis limit") {
		t.Errorf("expected rate-limit advisory from API error detail, got %v", msgs)
	}
}

func TestBatchClient_MaxPolls(t *testing.T) {
	api := &fakeJobAPI{} // processing forever
	got := newTestBatchClient(api, 3).SubmitAndAwait(context.Background(), []string{"w1"}, &recorder{})

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if api.polls != 3 {
		t.Errorf("expected exactly 3 polls, got %d", api.polls)
	}
}

func TestBatchClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &fakeJobAPI{
		statuses: []*dedge.BatchStatus{{Status: dedge.StatusProcessing}},
	}
	got := newTestBatchClient(api, 0).SubmitAndAwait(ctx, []string{"w1"}, &recorder{})

	if len(got) != 0 {
		t.Errorf("expected empty result on cancellation, got %v", got)
	}
}
