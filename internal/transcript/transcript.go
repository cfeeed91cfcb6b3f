// Package transcript exports a session history to YAML, Markdown, and PDF.
package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/tutor/internal/assets"
	"github.com/at-ishikawa/tutor/internal/pdf"
	"github.com/at-ishikawa/tutor/internal/render"
	"github.com/at-ishikawa/tutor/internal/session"
)

const fileTimeLayout = "20060102-150405"

// Transcript is an exported history. Entries are ordered oldest first.
type Transcript struct {
	Title      string                 `yaml:"title"`
	SessionID  string                 `yaml:"session_id,omitempty"`
	ExportedAt time.Time              `yaml:"exported_at"`
	Entries    []session.HistoryEntry `yaml:"entries"`
}

// New builds a transcript from a history ordered most recent first, as
// a session.State holds it.
func New(title string, history []session.HistoryEntry, exportedAt time.Time) Transcript {
	entries := slices.Clone(history)
	slices.Reverse(entries)
	return Transcript{
		Title:      title,
		ExportedAt: exportedAt,
		Entries:    entries,
	}
}

func ReadFile(path string) (Transcript, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	var t Transcript
	if err := yaml.Unmarshal(content, &t); err != nil {
		return Transcript{}, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return t, nil
}

func (t Transcript) templateData() assets.TranscriptTemplate {
	data := assets.TranscriptTemplate{
		Title:      t.Title,
		ExportedAt: t.ExportedAt,
	}
	for i, entry := range t.Entries {
		item := assets.TranscriptEntry{
			Number:  i + 1,
			Subject: entry.Subject.DisplayName(),
			Query:   strings.ReplaceAll(strings.TrimSpace(entry.Query), "\n", " "),
			AskedAt: entry.DisplayTime(),
		}
		for _, node := range render.Render(entry.Answer) {
			item.AnswerLines = append(item.AnswerLines, markdownLine(node))
			item.Boxed = append(item.Boxed, node.BoxedTexts()...)
		}
		data.Entries = append(data.Entries, item)
	}
	return data
}

func markdownLine(node render.Node) string {
	switch node.Kind {
	case render.KindHeading:
		return "### " + node.Text
	case render.KindListItem:
		return "- " + node.Text
	case render.KindBoxed:
		var b strings.Builder
		for _, segment := range node.Segments {
			if segment.Boxed {
				fmt.Fprintf(&b, "**[ %s ]**", segment.Text)
				continue
			}
			b.WriteString(segment.Text)
		}
		return b.String()
	default:
		return node.Text
	}
}

// Files are the paths written by an export. PDF is empty unless requested.
type Files struct {
	YAML     string
	Markdown string
	PDF      string
}

type Exporter struct {
	directory    string
	templatePath string
}

// NewExporter returns an exporter writing into directory. templatePath
// may be empty to use the embedded Markdown template.
func NewExporter(directory string, templatePath string) *Exporter {
	return &Exporter{
		directory:    directory,
		templatePath: templatePath,
	}
}

func (e *Exporter) Export(t Transcript, withPDF bool) (Files, error) {
	if len(t.Entries) == 0 {
		return Files{}, fmt.Errorf("no entries to export")
	}
	if err := os.MkdirAll(e.directory, 0755); err != nil {
		return Files{}, fmt.Errorf("os.MkdirAll(%s) > %w", e.directory, err)
	}

	base := filepath.Join(e.directory, "transcript-"+t.ExportedAt.Format(fileTimeLayout))
	files := Files{
		YAML:     base + ".yml",
		Markdown: base + ".md",
	}

	content, err := yaml.Marshal(t)
	if err != nil {
		return Files{}, fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.WriteFile(files.YAML, content, 0644); err != nil {
		return Files{}, fmt.Errorf("os.WriteFile(%s) > %w", files.YAML, err)
	}

	if err := e.writeMarkdown(files.Markdown, t); err != nil {
		return Files{}, err
	}

	if withPDF {
		pdfPath, err := pdf.ConvertMarkdownToPDF(files.Markdown)
		if err != nil {
			return Files{}, fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
		}
		files.PDF = pdfPath
	}

	slog.Default().Debug("exported a transcript",
		slog.String("yaml", files.YAML),
		slog.Int("entries", len(t.Entries)),
	)
	return files, nil
}

func (e *Exporter) writeMarkdown(path string, t Transcript) (err error) {
	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("output.Close() > %w", closeErr)
		}
	}()

	if err := assets.WriteTranscript(output, e.templatePath, t.templateData()); err != nil {
		return fmt.Errorf("assets.WriteTranscript() > %w", err)
	}
	return nil
}
