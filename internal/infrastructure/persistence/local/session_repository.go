package local

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/domain/session"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
)

// Storage keys per run, mirroring the draft layout the web client used.
const (
	keyAnswers   = "ettle_answers:"
	keyConsent   = "ettle_consent:"
	keyCurrentID = "ettle_currentId:"
	keyHistory   = "ettle_history:"
	keySubmitted = "ettle_submitted:"
)

type consentRecord struct {
	Granted bool      `json:"granted"`
	At      time.Time `json:"at,omitempty"`
}

// SessionRepository persists session state into the local store, one key per
// field so a single corrupt value only costs its own field.
type SessionRepository struct {
	store  *Store
	logger *logging.ChanneledLogger
}

// NewSessionRepository creates a session repository over the local store.
func NewSessionRepository(store *Store, logger *logging.ChanneledLogger) *SessionRepository {
	return &SessionRepository{store: store, logger: logger}
}

// Load restores the session for a run, substituting defaults for every
// missing or corrupt field. It never fails: the worst case is a fresh state.
func (r *SessionRepository) Load(runID string, entryID int) *session.State {
	state := session.New(runID, entryID)

	if raw, ok := r.store.Get(keyAnswers + runID); ok {
		var answers forms.Answers
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			r.logger.Session().Warn("Discarding corrupt answers draft", "runId", runID, "error", err.Error())
		} else {
			state.Answers = answers
		}
	}

	if raw, ok := r.store.Get(keyConsent + runID); ok {
		var consent consentRecord
		if err := json.Unmarshal([]byte(raw), &consent); err == nil {
			state.Consent = consent.Granted
			state.ConsentAt = consent.At
		}
	}

	if raw, ok := r.store.Get(keyCurrentID + runID); ok {
		if id, err := strconv.Atoi(raw); err == nil {
			state.CurrentID = id
		}
	}

	if raw, ok := r.store.Get(keyHistory + runID); ok {
		var history []int
		if err := json.Unmarshal([]byte(raw), &history); err == nil && len(history) > 0 {
			state.History = history
		}
	}

	if raw, ok := r.store.Get(keySubmitted + runID); ok {
		state.Submitted = raw == "true"
	}

	state.Normalize(entryID)
	return state
}

// Save writes every field of the session. Write failures are absorbed by the
// store; the in-memory state remains authoritative for the request.
func (r *SessionRepository) Save(state *session.State) {
	if data, err := json.Marshal(state.Answers); err == nil {
		r.store.Set(keyAnswers+state.RunID, string(data))
	}
	if data, err := json.Marshal(consentRecord{Granted: state.Consent, At: state.ConsentAt}); err == nil {
		r.store.Set(keyConsent+state.RunID, string(data))
	}
	r.store.Set(keyCurrentID+state.RunID, strconv.Itoa(state.CurrentID))
	if data, err := json.Marshal(state.History); err == nil {
		r.store.Set(keyHistory+state.RunID, string(data))
	}
	r.store.Set(keySubmitted+state.RunID, strconv.FormatBool(state.Submitted))
}
