package domain

// ScreeningRun records one completed qualification run for the history view.
// Corresponds to the screening_runs table in ClickHouse.
type ScreeningRun struct {
	UserID     string   // requester identity
	ChatID     string   // conversation the results were delivered to
	StartedAt  int64    // Unix timestamp in milliseconds
	FinishedAt int64    // Unix timestamp in milliseconds
	Submitted  int      // addresses submitted
	Batches    int      // batches processed
	Qualified  []string // addresses that met the criteria, in result order
}
