package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/render"
	"github.com/at-ishikawa/tutor/internal/session"
)

// RenderedAnswer is an answer as display nodes and as an HTML fragment
type RenderedAnswer struct {
	Nodes []render.Node `json:"nodes"`
	HTML  string        `json:"html"`
}

func newRenderedAnswer(answer string) RenderedAnswer {
	nodes := render.Render(answer)
	return RenderedAnswer{
		Nodes: nodes,
		HTML:  render.HTML(nodes),
	}
}

type EntryView struct {
	ID          string            `json:"id"`
	Subject     inference.Subject `json:"subject"`
	Query       string            `json:"query"`
	Answer      string            `json:"answer"`
	CreatedAt   time.Time         `json:"created_at"`
	DisplayTime string            `json:"display_time"`
	Rendered    RenderedAnswer    `json:"rendered"`
}

// HistoryItemView is an entry as listed in the history, without its answer
type HistoryItemView struct {
	ID          string            `json:"id"`
	Subject     inference.Subject `json:"subject"`
	Query       string            `json:"query"`
	DisplayTime string            `json:"display_time"`
}

type SessionView struct {
	ID           uuid.UUID         `json:"id"`
	Phase        session.Phase     `json:"phase"`
	Query        string            `json:"query"`
	Subject      inference.Subject `json:"subject"`
	Result       *EntryView        `json:"result,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	History      []HistoryItemView `json:"history"`
}

func newEntryView(entry session.HistoryEntry) EntryView {
	return EntryView{
		ID:          entry.ID,
		Subject:     entry.Subject,
		Query:       entry.Query,
		Answer:      entry.Answer,
		CreatedAt:   entry.CreatedAt,
		DisplayTime: entry.DisplayTime(),
		Rendered:    newRenderedAnswer(entry.Answer),
	}
}

func newSessionView(id uuid.UUID, state session.State) SessionView {
	view := SessionView{
		ID:           id,
		Phase:        state.Phase,
		Query:        state.Query,
		Subject:      state.Subject,
		ErrorMessage: state.ErrorMessage,
		History:      make([]HistoryItemView, 0, len(state.History)),
	}
	if state.PendingResult != nil {
		result := newEntryView(*state.PendingResult)
		view.Result = &result
	}
	for _, entry := range state.History {
		view.History = append(view.History, HistoryItemView{
			ID:          entry.ID,
			Subject:     entry.Subject,
			Query:       entry.Query,
			DisplayTime: entry.DisplayTime(),
		})
	}
	return view
}
