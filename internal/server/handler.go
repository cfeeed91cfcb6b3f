// Package server exposes tutoring sessions over a JSON API.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/session"
)

type TutorHandler struct {
	sessions *SessionCache
}

func NewTutorHandler(sessions *SessionCache) *TutorHandler {
	return &TutorHandler{sessions: sessions}
}

func (h *TutorHandler) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(h.Health))
	r.Get("/render", RestHandler(h.Render))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", RestHandler(h.CreateSession))
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", RestHandler(h.GetSession))
			r.Post("/submit", RestHandler(h.Submit))
			r.Post("/select", RestHandler(h.Select))
			r.Post("/clear", RestHandler(h.Clear))
			r.Put("/subject", RestHandler(h.SetSubject))
		})
	})
}

type submitRequest struct {
	Query string `json:"query"`
	// Subject defaults to the selected subject of the session
	Subject string `json:"subject" validate:"omitempty,max=32"`
}

type selectRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
}

type subjectRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (h *TutorHandler) Health(r *http.Request) (any, error) {
	return healthResponse{Status: "ok", Sessions: h.sessions.Len()}, nil
}

// Render formats the answer query parameter without a session.
func (h *TutorHandler) Render(r *http.Request) (any, error) {
	answer := r.URL.Query().Get("answer")
	if answer == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing answer query parameter")
	}
	return newRenderedAnswer(answer), nil
}

func (h *TutorHandler) CreateSession(r *http.Request) (any, error) {
	id, store := h.sessions.Create()
	return newSessionView(id, store.State()), nil
}

func (h *TutorHandler) GetSession(r *http.Request) (any, error) {
	id, store, err := h.session(r)
	if err != nil {
		return nil, err
	}
	return newSessionView(id, store.State()), nil
}

// Submit solves a question. A failed solve is not an HTTP error: the
// message is part of the returned session.
func (h *TutorHandler) Submit(r *http.Request) (any, error) {
	id, store, err := h.session(r)
	if err != nil {
		return nil, err
	}
	req, err := ParseRequest[submitRequest](r)
	if err != nil {
		return nil, err
	}

	subject := store.State().Subject
	if req.Subject != "" {
		if subject, err = parseSubject(req.Subject); err != nil {
			return nil, err
		}
	}

	if _, err := store.Submit(r.Context(), req.Query, subject); err != nil {
		switch {
		case errors.Is(err, session.ErrSubmissionPending):
			return nil, CodedError(http.StatusConflict, err)
		case errors.Is(err, inference.ErrEmptyQuery):
			return nil, CodedError(http.StatusBadRequest, err)
		}
	}
	return newSessionView(id, store.State()), nil
}

func (h *TutorHandler) Select(r *http.Request) (any, error) {
	id, store, err := h.session(r)
	if err != nil {
		return nil, err
	}
	req, err := ParseRequest[selectRequest](r)
	if err != nil {
		return nil, err
	}
	if _, err := store.SelectByID(req.EntryID); err != nil {
		if errors.Is(err, session.ErrEntryNotFound) {
			return nil, CodedError(http.StatusNotFound, err)
		}
		return nil, err
	}
	return newSessionView(id, store.State()), nil
}

func (h *TutorHandler) Clear(r *http.Request) (any, error) {
	id, store, err := h.session(r)
	if err != nil {
		return nil, err
	}
	store.Clear()
	return newSessionView(id, store.State()), nil
}

func (h *TutorHandler) SetSubject(r *http.Request) (any, error) {
	id, store, err := h.session(r)
	if err != nil {
		return nil, err
	}
	req, err := ParseRequest[subjectRequest](r)
	if err != nil {
		return nil, err
	}
	subject, err := parseSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	store.SetSubject(subject)
	return newSessionView(id, store.State()), nil
}

func (h *TutorHandler) session(r *http.Request) (uuid.UUID, *session.Store, error) {
	id, err := URLParamUUID(r, "session_id")
	if err != nil {
		return uuid.Nil, nil, err
	}
	store, ok := h.sessions.Get(id)
	if !ok {
		return uuid.Nil, nil, CodedErrorf(http.StatusNotFound, "session %s not found", id)
	}
	return id, store, nil
}

func parseSubject(value string) (inference.Subject, error) {
	subject, err := inference.ParseSubject(value)
	if err != nil {
		return "", CodedError(http.StatusBadRequest, err)
	}
	return subject, nil
}
