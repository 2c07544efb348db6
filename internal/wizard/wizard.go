// Package wizard implements the five-step criteria configuration flow: a
// strictly ordered state machine that asks for one numeric threshold at a
// time and assembles a complete FilterCriteria record on the final answer.
package wizard

import (
	"math"
	"strconv"
	"strings"

	"solana-wallet-scout/internal/domain"
)

// Step identifies the criterion the wizard is currently asking for.
type Step int

const (
	StepAvgTime Step = iota
	StepNetPL
	StepBalance
	StepWinRate
	StepLastTradeDays
	StepDone
)

// Prompts and re-prompt messages per step.
const (
	promptAvgTime       = "Let's configure your criteria.\nFirst, what is the minimum average trading time in minutes?"
	promptNetPL         = "What is the minimum net P&L in SOL?"
	promptBalance       = "What is the minimum current balance in SOL?"
	promptWinRate       = "What is the minimum win rate percentage (0-100)?"
	promptLastTradeDays = "At most how many days ago can the last trade be?"

	invalidAvgTime       = "Please enter a valid non-negative number for the average trading time in minutes."
	invalidNetPL         = "Please enter a valid number for the minimum net P&L."
	invalidBalance       = "Please enter a valid number for the minimum balance."
	invalidWinRate       = "Please enter a valid percentage between 0 and 100."
	invalidLastTradeDays = "Please enter a valid non-negative number of days."
)

// Session is one run of the wizard for one user. A session always starts at
// StepAvgTime; invalid input re-prompts without advancing, and nothing is
// persisted until every step has a valid answer.
type Session struct {
	step  Step
	draft domain.FilterCriteria
}

// NewSession starts a fresh wizard run.
func NewSession() *Session {
	return &Session{step: StepAvgTime}
}

// Step returns the current step.
func (s *Session) Step() Step {
	return s.step
}

// Start returns the opening prompt.
func (s *Session) Start() string {
	return promptAvgTime
}

// Done reports whether the wizard has collected all five values.
func (s *Session) Done() bool {
	return s.step == StepDone
}

// Criteria returns the assembled record. Only meaningful once Done.
func (s *Session) Criteria() domain.FilterCriteria {
	return s.draft
}

// Input consumes one freeform text reply. The returned reply is the next
// prompt, or a re-prompt when the input was invalid. done is true once the
// final value has been accepted; the session takes no further input.
func (s *Session) Input(text string) (reply string, done bool) {
	text = strings.TrimSpace(text)

	switch s.step {
	case StepAvgTime:
		v, ok := parseFloat(text)
		if !ok || v < 0 {
			return invalidAvgTime, false
		}
		s.draft.AvgTradingTimeMinutes = v
		s.step = StepNetPL
		return promptNetPL, false

	case StepNetPL:
		v, ok := parseFloat(text)
		if !ok {
			return invalidNetPL, false
		}
		s.draft.NetPLMinSol = v
		s.step = StepBalance
		return promptBalance, false

	case StepBalance:
		v, ok := parseFloat(text)
		if !ok {
			return invalidBalance, false
		}
		s.draft.BalanceMinSol = v
		s.step = StepWinRate
		return promptWinRate, false

	case StepWinRate:
		v, ok := parseFloat(text)
		if !ok || v < 0 || v > 100 {
			return invalidWinRate, false
		}
		s.draft.WinRateMinPercent = v
		s.step = StepLastTradeDays
		return promptLastTradeDays, false

	case StepLastTradeDays:
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 {
			return invalidLastTradeDays, false
		}
		s.draft.LastTradeMaxDaysAgo = v
		s.step = StepDone
		return "", true
	}

	// StepDone: the run is over, no further input is accepted.
	return "", true
}

// parseFloat accepts finite numbers only.
func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
