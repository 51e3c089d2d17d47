package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/domain/session"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/local"
	"github.com/google/uuid"
)

// Session state statuses reported to the client.
const (
	StatusUnconfigured = "unconfigured"
	StatusInProgress   = "in_progress"
	StatusComplete     = "complete"
)

// QuestionView is the client-facing shape of a question. Edge targets stay
// server-side; the client only sees the labels.
type QuestionView struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Optional    bool     `json:"optional"`
	HasOther    bool     `json:"hasOther"`
	Choices     []string `json:"choices,omitempty"`
}

// SessionView is the client-facing snapshot of a run.
type SessionView struct {
	RunID       string            `json:"runId"`
	Status      string            `json:"status"`
	Consent     bool              `json:"consent"`
	Question    *QuestionView     `json:"question,omitempty"`
	Answer      forms.AnswerValue `json:"answer,omitempty"`
	OtherAnswer string            `json:"otherAnswer,omitempty"`
	Answered    int               `json:"answered"`
	Total       int               `json:"total"`
	CanGoBack   bool              `json:"canGoBack"`
}

// SessionService owns the lifecycle of questionnaire runs: state, consent,
// answers, navigation, and submission. All mutations for one run are
// serialized under a per-run lock.
type SessionService struct {
	graph    *forms.Graph
	sessions *local.SessionRepository
	sync     *SyncService
	logger   *logging.ChanneledLogger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewSessionService creates the session service.
func NewSessionService(graph *forms.Graph, sessions *local.SessionRepository, syncSvc *SyncService, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		graph:    graph,
		sessions: sessions,
		sync:     syncSvc,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockRun serializes access to one run's state.
func (s *SessionService) lockRun(runID string) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[runID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[runID] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Questions returns the full graph in client shape, for prefetching.
func (s *SessionService) Questions() []QuestionView {
	out := make([]QuestionView, 0, s.graph.Len())
	for _, q := range s.graph.Questions() {
		out = append(out, questionView(&q))
	}
	return out
}

// GetOrCreate restores the session for a run id, minting a new run identity
// when none is supplied.
func (s *SessionService) GetOrCreate(runID string) (*SessionView, error) {
	minted := runID == ""
	if minted {
		runID = uuid.NewString()
	}
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if minted {
		s.sessions.Save(state)
		s.logger.WithRun(logging.ChannelSession, runID).Info("Run started")
	}
	return s.view(state), nil
}

// GrantConsent records the consent decision for a run.
func (s *SessionService) GrantConsent(runID string, granted bool) (*SessionView, error) {
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if state.Submitted {
		return nil, ErrAlreadySubmitted
	}
	state.GrantConsent(granted, time.Now().UTC())
	s.sessions.Save(state)

	s.logger.Session().Info("Consent recorded", "runId", runID, "granted", granted)
	return s.view(state), nil
}

// AnswerResult reports what an answer write did.
type AnswerResult struct {
	Satisfied bool `json:"satisfied"`
}

// SetAnswer merges one answer into the run, persists the draft locally, and
// queues a debounced remote write. A valid contact capture is pushed
// immediately instead of waiting out the debounce window.
func (s *SessionService) SetAnswer(runID string, key forms.AnswerKey, val forms.AnswerValue) (*AnswerResult, error) {
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if state.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if !state.Consent {
		return nil, ErrConsentRequired
	}
	q, ok := s.graph.Lookup(key.QuestionID)
	if !ok {
		return nil, ErrUnknownQuestion
	}

	state.SetAnswer(key, val)
	s.sessions.Save(state)

	rec := forms.ProjectSingle(q, state.Answers)
	satisfied := forms.IsSatisfied(q, state.Answers)
	if q.IsContact() && satisfied {
		s.sync.SyncContact(runID, rec)
	} else {
		s.sync.ScheduleDraft(runID, rec)
	}

	return &AnswerResult{Satisfied: satisfied}, nil
}

// Next validates the current question, resolves the route, and either
// advances or, at the end of the graph, performs the final submission.
func (s *SessionService) Next(ctx context.Context, runID string) (*SessionView, error) {
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if state.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if !state.Consent {
		return nil, ErrConsentRequired
	}
	q, ok := s.graph.Lookup(state.CurrentID)
	if !ok {
		return nil, ErrNotAtEnd
	}
	if !forms.IsSatisfied(q, state.Answers) {
		return nil, ErrAnswerRequired
	}

	// Navigation drains the pending draft so it cannot fire later over a
	// newer write.
	s.sync.Flush(runID)

	route := forms.NextID(q, state.Answers.Get(q.ID))
	if route.Conflict {
		s.logger.Forms().Warn("Divergent branch targets, first edge wins",
			"runId", runID, "questionId", q.ID, "target", route.NextID)
	}

	if route.NextID == forms.EndOfForm {
		if err := s.finalize(ctx, state); err != nil {
			return nil, err
		}
		return s.view(state), nil
	}

	state.Advance(route.NextID)
	s.sessions.Save(state)
	return s.view(state), nil
}

// Back returns to the previous question. At the first question it is a
// no-op, never an error. Previously given answers are not re-validated.
func (s *SessionService) Back(runID string) (*SessionView, error) {
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if state.Submitted {
		return nil, ErrAlreadySubmitted
	}
	s.sync.Flush(runID)
	if state.Back() {
		s.sessions.Save(state)
	}
	return s.view(state), nil
}

// Submit performs the final submission explicitly. It is idempotent for an
// already-submitted run and rejects a run whose current question does not
// route to the end of the form.
func (s *SessionService) Submit(ctx context.Context, runID string) (*SessionView, error) {
	defer s.lockRun(runID)()

	state := s.sessions.Load(runID, s.graph.EntryID())
	if state.Submitted {
		return s.view(state), nil
	}
	if !state.Consent {
		return nil, ErrConsentRequired
	}
	q, ok := s.graph.Lookup(state.CurrentID)
	if !ok {
		return nil, ErrNotAtEnd
	}
	if !forms.IsSatisfied(q, state.Answers) {
		return nil, ErrAnswerRequired
	}
	if route := forms.NextID(q, state.Answers.Get(q.ID)); route.NextID != forms.EndOfForm {
		return nil, ErrNotAtEnd
	}

	if err := s.finalize(ctx, state); err != nil {
		return nil, err
	}
	return s.view(state), nil
}

// finalize writes the full projection synchronously and marks the run
// submitted. Caller holds the run lock.
func (s *SessionService) finalize(ctx context.Context, state *session.State) error {
	rec := forms.ProjectAll(s.graph, state.Answers, state.RunID, state.ConsentAt, time.Now().UTC())
	if err := s.sync.SyncFinal(ctx, state.RunID, rec); err != nil {
		return fmt.Errorf("%w: %s", ErrSyncFailed, err)
	}

	state.Submitted = true
	state.Advance(forms.EndOfForm)
	s.sessions.Save(state)

	s.logger.WithRun(logging.ChannelSession, state.RunID).Info("Run submitted", "answered", len(state.History))
	return nil
}

// view builds the client snapshot for a state. Caller holds the run lock.
func (s *SessionService) view(state *session.State) *SessionView {
	answered, total := state.Progress(s.graph.Len())
	view := &SessionView{
		RunID:     state.RunID,
		Status:    StatusInProgress,
		Consent:   state.Consent,
		Answered:  answered,
		Total:     total,
		CanGoBack: len(state.History) > 1,
	}

	switch {
	case s.graph.Len() == 0:
		view.Status = StatusUnconfigured
	case state.Submitted:
		view.Status = StatusComplete
	}

	if q, ok := s.graph.Lookup(state.CurrentID); ok && !state.Submitted {
		qv := questionView(q)
		view.Question = &qv
		view.Answer = state.Answers.Get(q.ID)
		view.OtherAnswer = state.Answers.GetOther(q.ID).String()
	}
	return view
}

func questionView(q *forms.Question) QuestionView {
	view := QuestionView{
		ID:          q.ID,
		Type:        string(q.Type),
		Prompt:      q.Prompt,
		Description: q.Description,
		Placeholder: q.Placeholder,
		Optional:    q.Optional,
		HasOther:    q.HasOther,
	}
	for _, edge := range q.Choices {
		view.Choices = append(view.Choices, edge.Label)
	}
	return view
}
