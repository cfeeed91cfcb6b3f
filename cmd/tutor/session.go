package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/tutor/internal/cli"
	"github.com/at-ishikawa/tutor/internal/clipboard"
	"github.com/at-ishikawa/tutor/internal/transcript"
)

func newSessionCommand() *cobra.Command {
	var subjectFlag SubjectFlag

	command := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive tutoring session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			subject, err := subjectFlag.Resolve(cfg.Session.DefaultSubject)
			if err != nil {
				return err
			}

			tutor, err := newTutorSession(cmd.Context(), cfg, subject)
			if err != nil {
				return err
			}
			defer tutor.Close()

			exporter := transcript.NewExporter(cfg.Outputs.TranscriptDirectory, cfg.Outputs.TranscriptTemplate)
			return cli.NewTutorCLI(tutor.store, exporter, clipboard.System{}).Run(cmd.Context())
		},
	}
	command.Flags().Var(&subjectFlag, "subject", "physics or math (default session.default_subject)")
	return command
}
