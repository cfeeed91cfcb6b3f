package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/tutor/internal/archive"
	"github.com/at-ishikawa/tutor/internal/config"
	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/inference/gemini"
	"github.com/at-ishikawa/tutor/internal/session"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// SubjectFlag is a subject given on the command line. The zero value means
// the configured default subject.
type SubjectFlag inference.Subject

// Set implements pflag.Value.
func (s *SubjectFlag) Set(v string) error {
	subject, err := inference.ParseSubject(v)
	if err != nil {
		return err
	}
	*s = SubjectFlag(subject)
	return nil
}

// String implements pflag.Value.
func (s *SubjectFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SubjectFlag) Type() string {
	return "subject"
}

var (
	_ pflag.Value = (*SubjectFlag)(nil)
)

// Resolve returns the flag value, or defaultSubject when it was not set.
func (s SubjectFlag) Resolve(defaultSubject string) (inference.Subject, error) {
	if s != "" {
		return inference.Subject(s), nil
	}
	return inference.ParseSubject(defaultSubject)
}

// tutorSession is a store wired to the configured solver and archive.
type tutorSession struct {
	store   *session.Store
	closers []func() error
}

func (s *tutorSession) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Default().Warn("failed to close a resource", "error", err)
		}
	}
}

func newTutorSession(ctx context.Context, cfg *config.Config, subject inference.Subject) (*tutorSession, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	result := &tutorSession{
		closers: []func() error{client.Close},
	}

	var options []session.Option
	if cfg.Database.Enabled {
		repository, err := archive.Connect(ctx, cfg.Database)
		if err != nil {
			result.Close()
			return nil, fmt.Errorf("archive.Connect() > %w", err)
		}
		result.closers = append(result.closers, repository.Close)
		options = append(options, session.WithRecorder(archive.NewRecorder(repository, uuid.NewString())))
	}

	result.store = session.NewStore(client, subject, options...)
	return result, nil
}
