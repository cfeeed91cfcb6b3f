// Package session holds the state of one tutoring session: the current
// query, the selected subject, the latest result and the answer history.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/tutor/internal/inference"
)

var (
	// ErrSubmissionPending is returned when Submit is called while another request is in flight
	ErrSubmissionPending = errors.New("a question is already being solved")
	ErrEntryNotFound     = errors.New("history entry not found")
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

//go:generate mockgen -source=store.go -destination=../mocks/session/mock_recorder.go -package=mock_session Recorder

// Recorder receives every new history entry, for example to archive it.
type Recorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
}

// Store serializes every state change; the solver call itself runs
// without the lock held so State stays readable while a request is pending.
type Store struct {
	client   inference.Client
	recorder Recorder
	now      func() time.Time
	newID    func() string

	mu            sync.Mutex
	phase         Phase
	query         string
	subject       inference.Subject
	pendingResult *HistoryEntry
	errorMessage  string
	history       []HistoryEntry
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *Store) {
		s.recorder = recorder
	}
}

// NewStore creates an empty session with subject preselected.
func NewStore(client inference.Client, subject inference.Subject, options ...Option) *Store {
	store := &Store{
		client:  client,
		now:     time.Now,
		newID:   uuid.NewString,
		phase:   PhaseIdle,
		subject: subject,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// Submit solves query and records the outcome. Only one submission may be
// in flight; a second call fails with ErrSubmissionPending without
// touching the state.
func (s *Store) Submit(ctx context.Context, query string, subject inference.Subject) (HistoryEntry, error) {
	s.mu.Lock()
	if s.phase == PhasePending {
		s.mu.Unlock()
		return HistoryEntry{}, ErrSubmissionPending
	}
	s.query = query
	s.subject = subject
	if strings.TrimSpace(query) == "" {
		s.fail(inference.ErrEmptyQuery)
		s.mu.Unlock()
		return HistoryEntry{}, inference.ErrEmptyQuery
	}
	s.phase = PhasePending
	s.mu.Unlock()

	response, err := s.client.Solve(ctx, inference.SolveRequest{
		Query:   query,
		Subject: subject,
	})

	s.mu.Lock()
	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		slog.Default().Info("failed to solve a question",
			"subject", subject,
			"error", err,
		)
		return HistoryEntry{}, fmt.Errorf("client.Solve > %w", err)
	}

	entry := HistoryEntry{
		ID:        s.newID(),
		Subject:   subject,
		Query:     query,
		Answer:    response.Answer,
		CreatedAt: s.now(),
	}
	result := entry
	s.pendingResult = &result
	s.errorMessage = ""
	s.history = append([]HistoryEntry{entry}, s.history...)
	s.phase = PhaseSucceeded
	s.mu.Unlock()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, entry); err != nil {
			slog.Default().Warn("failed to record a history entry",
				"id", entry.ID,
				"error", err,
			)
		}
	}
	return entry, nil
}

// fail must be called with mu held
func (s *Store) fail(err error) {
	s.pendingResult = nil
	s.errorMessage = inference.DisplayMessage(err)
	s.phase = PhaseFailed
}

// SelectFromHistory shows a previous entry again without a new request.
// The entry does not need to still be in the history.
func (s *Store) SelectFromHistory(entry HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := entry
	s.query = entry.Query
	s.subject = entry.Subject
	s.pendingResult = &result
	s.errorMessage = ""
}

// SelectByID selects the history entry with the given id.
func (s *Store) SelectByID(id string) (HistoryEntry, error) {
	s.mu.Lock()
	var found *HistoryEntry
	for i := range s.history {
		if s.history[i].ID == id {
			entry := s.history[i]
			found = &entry
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return HistoryEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	s.SelectFromHistory(*found)
	return *found, nil
}

// Clear drops the history, the result and the query. The subject stays selected.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.pendingResult = nil
	s.query = ""
	s.errorMessage = ""
	if s.phase != PhasePending {
		s.phase = PhaseIdle
	}
}

func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

func (s *Store) SetSubject(subject inference.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = subject
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// State returns a copy that later changes to the store do not affect.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Phase:        s.phase,
		Query:        s.query,
		Subject:      s.subject,
		ErrorMessage: s.errorMessage,
		History:      make([]HistoryEntry, len(s.history)),
	}
	copy(state.History, s.history)
	if s.pendingResult != nil {
		result := *s.pendingResult
		state.PendingResult = &result
	}
	return state
}
