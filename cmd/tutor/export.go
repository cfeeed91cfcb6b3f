package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/tutor/internal/archive"
	"github.com/at-ishikawa/tutor/internal/config"
	"github.com/at-ishikawa/tutor/internal/session"
	"github.com/at-ishikawa/tutor/internal/transcript"
)

type exportOptions struct {
	from      string
	sessionID string
	recent    int
	withPDF   bool
}

func (o exportOptions) validate() error {
	sources := 0
	if o.from != "" {
		sources++
	}
	if o.sessionID != "" {
		sources++
	}
	if o.recent > 0 {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of --from, --session or --recent is required")
	}
	return nil
}

func newExportCommand() *cobra.Command {
	var options exportOptions

	command := &cobra.Command{
		Use:   "export",
		Short: "Export a transcript as YAML, Markdown and optionally PDF",
		Long: "Export a saved transcript file again, or the archived answers of a session " +
			"or the most recent archived answers when database.enabled is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.validate(); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cfg, options, cmd.OutOrStdout())
		},
	}
	flags := command.Flags()
	flags.StringVar(&options.from, "from", "", "a transcript YAML file written by an earlier export")
	flags.StringVar(&options.sessionID, "session", "", "an archived session ID")
	flags.IntVar(&options.recent, "recent", 0, "the number of most recent archived answers")
	flags.BoolVar(&options.withPDF, "pdf", false, "also write a PDF")
	return command
}

func runExport(ctx context.Context, cfg *config.Config, options exportOptions, output io.Writer) error {
	t, err := loadTranscript(ctx, cfg, options)
	if err != nil {
		return err
	}

	t.ExportedAt = time.Now()
	files, err := transcript.NewExporter(cfg.Outputs.TranscriptDirectory, cfg.Outputs.TranscriptTemplate).
		Export(t, options.withPDF)
	if err != nil {
		return fmt.Errorf("exporter.Export() > %w", err)
	}

	for _, path := range []string{files.YAML, files.Markdown, files.PDF} {
		if path == "" {
			continue
		}
		if _, err := fmt.Fprintln(output, path); err != nil {
			return fmt.Errorf("fmt.Fprintln() > %w", err)
		}
	}
	return nil
}

func loadTranscript(ctx context.Context, cfg *config.Config, options exportOptions) (transcript.Transcript, error) {
	if options.from != "" {
		t, err := transcript.ReadFile(options.from)
		if err != nil {
			return transcript.Transcript{}, fmt.Errorf("transcript.ReadFile() > %w", err)
		}
		return t, nil
	}

	if !cfg.Database.Enabled {
		return transcript.Transcript{}, fmt.Errorf("--session and --recent need database.enabled in the config")
	}
	repository, err := archive.Connect(ctx, cfg.Database)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("archive.Connect() > %w", err)
	}
	defer func() {
		_ = repository.Close()
	}()

	return archivedTranscript(ctx, repository, options)
}

func archivedTranscript(ctx context.Context, repository archive.Repository, options exportOptions) (transcript.Transcript, error) {
	var records []archive.Record
	var err error
	title := "Recent answers"
	if options.sessionID != "" {
		title = "Tutor session " + options.sessionID
		records, err = repository.FindBySession(ctx, options.sessionID)
	} else {
		records, err = repository.FindRecent(ctx, options.recent)
	}
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("find archived answers > %w", err)
	}

	history := make([]session.HistoryEntry, 0, len(records))
	for _, record := range records {
		history = append(history, record.HistoryEntry())
	}
	// records are most recent first, like a live history
	t := transcript.New(title, history, time.Time{})
	t.SessionID = options.sessionID
	return t, nil
}
