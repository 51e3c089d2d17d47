// Package session models the state of one questionnaire run.
package session

import (
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
)

// State is the accumulated state of a single run, keyed by its run identity.
// It is mutated only under the owning service's per-run lock.
type State struct {
	RunID     string        `json:"runId"`
	Consent   bool          `json:"consent"`
	ConsentAt time.Time     `json:"consentAt,omitempty"`
	CurrentID int           `json:"currentId"`
	History   []int         `json:"history"`
	Answers   forms.Answers `json:"answers"`
	Submitted bool          `json:"submitted"`
}

// New returns a fresh state positioned at the graph's entry question.
func New(runID string, entryID int) *State {
	s := &State{
		RunID:     runID,
		CurrentID: entryID,
		Answers:   make(forms.Answers),
	}
	if entryID != forms.EndOfForm {
		s.History = []int{entryID}
	}
	return s
}

// Normalize repairs a state restored from storage: nil maps and a history
// that does not end at the current question are replaced with usable
// defaults. Corrupt persisted values degrade to a fresh run, never an error.
func (s *State) Normalize(entryID int) {
	if s.Answers == nil {
		s.Answers = make(forms.Answers)
	}
	if s.CurrentID == 0 {
		s.CurrentID = entryID
	}
	if len(s.History) == 0 && s.CurrentID != forms.EndOfForm {
		s.History = []int{s.CurrentID}
	}
}

// GrantConsent records consent with its timestamp. Revoking clears both.
func (s *State) GrantConsent(granted bool, now time.Time) {
	s.Consent = granted
	if granted {
		if s.ConsentAt.IsZero() {
			s.ConsentAt = now
		}
		return
	}
	s.ConsentAt = time.Time{}
}

// SetAnswer merges one answer into the store.
func (s *State) SetAnswer(key forms.AnswerKey, val forms.AnswerValue) {
	s.Answers.Set(key, val)
}

// Advance moves to the next question and appends it to the history.
func (s *State) Advance(nextID int) {
	s.CurrentID = nextID
	if nextID != forms.EndOfForm {
		s.History = append(s.History, nextID)
	}
}

// Back pops the current question off the history and returns to the previous
// one. It reports false at the first question.
func (s *State) Back() bool {
	if len(s.History) < 2 {
		return false
	}
	s.History = s.History[:len(s.History)-1]
	s.CurrentID = s.History[len(s.History)-1]
	return true
}

// Progress returns how many questions hold an answer and the graph total.
// Companion free-text values for an "Other" choice do not count on their own.
func (s *State) Progress(graphTotal int) (answered, total int) {
	for key, val := range s.Answers {
		if !key.Other && !val.IsZero() {
			answered++
		}
	}
	return answered, graphTotal
}
