package session

import (
	"time"

	"github.com/at-ishikawa/tutor/internal/inference"
)

const DisplayTimeLayout = "2006-01-02 15:04:05"

// HistoryEntry is one solved question. It is a value: copies never change.
type HistoryEntry struct {
	ID        string            `json:"id" yaml:"id"`
	Subject   inference.Subject `json:"subject" yaml:"subject"`
	Query     string            `json:"query" yaml:"query"`
	Answer    string            `json:"answer" yaml:"answer"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

func (e HistoryEntry) DisplayTime() string {
	return e.CreatedAt.Local().Format(DisplayTimeLayout)
}

// State is a snapshot of a Store. History is ordered most recent first.
type State struct {
	Phase         Phase             `json:"phase"`
	Query         string            `json:"query"`
	Subject       inference.Subject `json:"subject"`
	PendingResult *HistoryEntry     `json:"pending_result,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	History       []HistoryEntry    `json:"history"`
}
