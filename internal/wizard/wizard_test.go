package wizard

import (
	"strings"
	"testing"

	"solana-wallet-scout/internal/domain"
)

func TestWizard_HappyPath(t *testing.T) {
	s := NewSession()
	if !strings.Contains(s.Start(), "average trading time") {
		t.Errorf("unexpected opening prompt: %q", s.Start())
	}

	steps := []struct {
		input    string
		wantDone bool
	}{
		{"10", false},
		{"0.5", false},
		{"-2", false}, // balance may be any number
		{"55", false},
		{"7", true},
	}

	for i, st := range steps {
		_, done := s.Input(st.input)
		if done != st.wantDone {
			t.Fatalf("step %d: done = %v, want %v", i, done, st.wantDone)
		}
	}

	if !s.Done() {
		t.Fatal("session should be done")
	}
	c := s.Criteria()
	if c.AvgTradingTimeMinutes != 10 || c.NetPLMinSol != 0.5 || c.BalanceMinSol != -2 ||
		c.WinRateMinPercent != 55 || c.LastTradeMaxDaysAgo != 7 {
		t.Errorf("unexpected criteria: %+v", c)
	}
}

func TestWizard_InvalidInputDoesNotAdvance(t *testing.T) {
	s := NewSession()

	for _, bad := range []string{"", "abc", "-1", "NaN", "Inf"} {
		reply, done := s.Input(bad)
		if done {
			t.Fatalf("input %q must not complete the wizard", bad)
		}
		if s.Step() != StepAvgTime {
			t.Fatalf("input %q advanced the wizard to step %d", bad, s.Step())
		}
		if !strings.Contains(reply, "average trading time") {
			t.Errorf("input %q: expected re-prompt, got %q", bad, reply)
		}
	}

	// A valid value still advances afterwards.
	if _, done := s.Input("12.5"); done {
		t.Fatal("wizard completed too early")
	}
	if s.Step() != StepNetPL {
		t.Errorf("expected StepNetPL, got %d", s.Step())
	}
}

func TestWizard_WinRateBounds(t *testing.T) {
	s := NewSession()
	s.Input("10")
	s.Input("0")
	s.Input("0")

	for _, bad := range []string{"-5", "101", "abc"} {
		if _, done := s.Input(bad); done || s.Step() != StepWinRate {
			t.Errorf("win rate %q should re-prompt", bad)
		}
	}

	s.Input("100")
	if s.Step() != StepLastTradeDays {
		t.Errorf("expected StepLastTradeDays, got %d", s.Step())
	}
}

func TestWizard_LastTradeDaysInteger(t *testing.T) {
	s := NewSession()
	s.Input("10")
	s.Input("0")
	s.Input("0")
	s.Input("50")

	for _, bad := range []string{"7.5", "-1", "week"} {
		if _, done := s.Input(bad); done || s.Step() != StepLastTradeDays {
			t.Errorf("days %q should re-prompt", bad)
		}
	}

	if _, done := s.Input("0"); !done {
		t.Error("zero days is valid and should complete the wizard")
	}
}

func TestWizard_RestartIsFresh(t *testing.T) {
	s := NewSession()
	s.Input("10")
	s.Input("1")

	s = NewSession()
	if s.Step() != StepAvgTime {
		t.Errorf("fresh session should start at StepAvgTime, got %d", s.Step())
	}
	if s.Criteria() != (domain.FilterCriteria{}) {
		t.Error("fresh session should have a zero draft")
	}
}
