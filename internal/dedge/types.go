package dedge

import "solana-wallet-scout/internal/domain"

// Job status values returned by the batch API. A job is terminal once it is
// completed or error.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// submitRequest is the body of POST /process_wallet_batch.
type submitRequest struct {
	WalletAddresses []string `json:"wallet_addresses"`
}

// submitResponse is the body returned for an accepted batch.
type submitResponse struct {
	TaskID string `json:"task_id"`
}

// BatchStatus is the body of GET /batch_status/{task_id}.
type BatchStatus struct {
	Status  string                 `json:"status"`
	Results []*domain.WalletRecord `json:"results,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Terminal reports whether polling can stop.
func (s *BatchStatus) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// errorResponse is the body the API returns on non-2xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}
