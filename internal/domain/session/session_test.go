package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
)

func TestNewState(t *testing.T) {
	s := New("run-1", 2)
	if s.CurrentID != 2 {
		t.Errorf("CurrentID = %d, want 2", s.CurrentID)
	}
	if len(s.History) != 1 || s.History[0] != 2 {
		t.Errorf("History = %v, want [2]", s.History)
	}

	empty := New("run-2", forms.EndOfForm)
	if len(empty.History) != 0 {
		t.Errorf("empty-graph History = %v, want empty", empty.History)
	}
}

func TestAdvanceAndBack(t *testing.T) {
	s := New("run-1", 2)
	s.Advance(3)
	s.Advance(4)

	if s.CurrentID != 4 {
		t.Errorf("CurrentID = %d, want 4", s.CurrentID)
	}
	if !s.Back() {
		t.Fatal("Back() = false mid-form")
	}
	if s.CurrentID != 3 {
		t.Errorf("after Back CurrentID = %d, want 3", s.CurrentID)
	}
	if !s.Back() {
		t.Fatal("Back() = false at second question")
	}
	if s.Back() {
		t.Error("Back() = true at the first question")
	}
	if s.CurrentID != 2 {
		t.Errorf("CurrentID = %d, want 2", s.CurrentID)
	}
}

func TestAdvanceTerminalKeepsHistory(t *testing.T) {
	s := New("run-1", 2)
	s.Advance(forms.EndOfForm)
	if s.CurrentID != forms.EndOfForm {
		t.Errorf("CurrentID = %d, want %d", s.CurrentID, forms.EndOfForm)
	}
	if len(s.History) != 1 {
		t.Errorf("terminal advance grew history: %v", s.History)
	}
}

func TestGrantConsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New("run-1", 2)

	s.GrantConsent(true, now)
	if !s.Consent || !s.ConsentAt.Equal(now) {
		t.Errorf("consent = %v at %v", s.Consent, s.ConsentAt)
	}

	// Re-granting keeps the original timestamp.
	s.GrantConsent(true, now.Add(time.Hour))
	if !s.ConsentAt.Equal(now) {
		t.Errorf("re-grant moved ConsentAt to %v", s.ConsentAt)
	}

	s.GrantConsent(false, now.Add(2*time.Hour))
	if s.Consent || !s.ConsentAt.IsZero() {
		t.Errorf("revoke left consent=%v at %v", s.Consent, s.ConsentAt)
	}
}

func TestNormalize(t *testing.T) {
	var s State
	if err := json.Unmarshal([]byte(`{"runId":"run-1","currentId":7}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize(2)

	if s.Answers == nil {
		t.Error("Normalize left Answers nil")
	}
	if s.CurrentID != 7 {
		t.Errorf("CurrentID = %d, want restored 7", s.CurrentID)
	}
	if len(s.History) != 1 || s.History[0] != 7 {
		t.Errorf("History = %v, want [7]", s.History)
	}

	blank := &State{}
	blank.Normalize(2)
	if blank.CurrentID != 2 {
		t.Errorf("blank CurrentID = %d, want entry 2", blank.CurrentID)
	}
}

func TestProgressCountsAnsweredQuestions(t *testing.T) {
	s := New("run-1", 2)
	s.Advance(3)

	// Visiting a question is not answering it.
	if answered, total := s.Progress(38); answered != 0 || total != 38 {
		t.Errorf("Progress() = %d/%d, want 0/38", answered, total)
	}

	s.SetAnswer(forms.Key(2), forms.Text("Ada"))
	s.SetAnswer(forms.Key(3), forms.List([]string{"Running"}))
	// The companion free-text value rides along with its question.
	s.SetAnswer(forms.OtherKey(3), forms.Text("Parkour"))

	if answered, total := s.Progress(38); answered != 2 || total != 38 {
		t.Errorf("Progress() = %d/%d, want 2/38", answered, total)
	}
}
