package assets

import (
	"fmt"
	"io"
	"time"
)

// TranscriptTemplate is the top-level data structure for transcript templates
type TranscriptTemplate struct {
	Title      string
	ExportedAt time.Time
	Entries    []TranscriptEntry
}

// TranscriptEntry is one question and its answer, already converted to
// Markdown lines.
type TranscriptEntry struct {
	Number      int
	Subject     string
	Query       string
	AskedAt     string
	AnswerLines []string
	Boxed       []string
}

func WriteTranscript(output io.Writer, templatePath string, data TranscriptTemplate) error {
	tmpl, err := ParseTranscriptTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseTranscriptTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
