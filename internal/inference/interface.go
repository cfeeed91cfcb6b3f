package inference

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for solving a tutoring problem
type Client interface {
	Solve(ctx context.Context, params SolveRequest) (SolveResponse, error)
}

type Subject string

const (
	SubjectPhysics Subject = "physics"
	SubjectMath    Subject = "math"
)

// ParseSubject accepts the subject names shown in the UI, case-insensitively.
func ParseSubject(value string) (Subject, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "physics":
		return SubjectPhysics, nil
	case "math", "maths", "mathematics":
		return SubjectMath, nil
	}
	return "", fmt.Errorf("unknown subject %q: must be physics or math", value)
}

func (s Subject) String() string {
	return string(s)
}

// DisplayName is the subject name used inside the instruction
func (s Subject) DisplayName() string {
	if s == SubjectMath {
		return "Mathematics"
	}
	return "Physics"
}

// SolveRequest holds parameters for a single problem
type SolveRequest struct {
	Query   string  `json:"query"`
	Subject Subject `json:"subject"`
}

type SolveResponse struct {
	// Answer is the raw text of the first candidate
	Answer string
}
