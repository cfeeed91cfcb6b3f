package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/render"
	"github.com/at-ishikawa/tutor/internal/session"
)

func newSolveCommand() *cobra.Command {
	var subjectFlag SubjectFlag
	var raw bool

	command := &cobra.Command{
		Use:   "solve [question]",
		Short: "Solve one question and print the answer",
		Long:  "Solve one question and print the answer. The question is read from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			subject, err := subjectFlag.Resolve(cfg.Session.DefaultSubject)
			if err != nil {
				return err
			}
			query, err := readQuery(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tutor, err := newTutorSession(cmd.Context(), cfg, subject)
			if err != nil {
				return err
			}
			defer tutor.Close()

			return solve(cmd.Context(), tutor.store, query, subject, raw, cmd.OutOrStdout())
		},
	}
	command.Flags().Var(&subjectFlag, "subject", "physics or math (default session.default_subject)")
	command.Flags().BoolVar(&raw, "raw", false, "print the answer as returned by the model")
	return command
}

func readQuery(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll(stdin) > %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func solve(ctx context.Context, store *session.Store, query string, subject inference.Subject, raw bool, output io.Writer) error {
	entry, err := store.Submit(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("%s: %w", store.State().ErrorMessage, err)
	}

	if raw {
		if _, err := fmt.Fprintln(output, entry.Answer); err != nil {
			return fmt.Errorf("fmt.Fprintln() > %w", err)
		}
		return nil
	}
	return render.NewTerminal().Write(output, render.Render(entry.Answer))
}
