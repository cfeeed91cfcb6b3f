package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/tutor/internal/clipboard"
	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/render"
	"github.com/at-ishikawa/tutor/internal/session"
	"github.com/at-ishikawa/tutor/internal/transcript"
)

var errEnd = errors.New("end")

const transcriptTitle = "Tutor session"

const helpText = `Type a question and press enter to solve it.
Commands:
  :subject physics|math  select the subject
  :history               list previous answers
  :select N              show answer N from the history again
  :clear                 clear the history and the current answer
  :copy                  copy the current answer to the clipboard
  :export [pdf]          export the history as a transcript
  :help                  show this help
  quit                   end the session
`

// TutorCLI runs an interactive tutoring session in a terminal
type TutorCLI struct {
	store        *session.Store
	exporter     *transcript.Exporter
	copier       clipboard.Copier
	terminal     *render.Terminal
	now          func() time.Time
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	faint        *color.Color
	red          *color.Color
}

func NewTutorCLI(store *session.Store, exporter *transcript.Exporter, copier clipboard.Copier) *TutorCLI {
	return &TutorCLI{
		store:        store,
		exporter:     exporter,
		copier:       copier,
		terminal:     render.NewTerminal(),
		now:          time.Now,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		red:          color.New(color.FgRed),
	}
}

func (cli *TutorCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	if _, err := fmt.Fprint(cli.stdoutWriter, helpText); err != nil {
		return fmt.Errorf("fmt.Fprint() > %w", err)
	}

	errCh := make(chan error)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := cli.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session reads one line and handles it as a command or a question.
func (cli *TutorCLI) Session(ctx context.Context) error {
	state := cli.store.State()
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "[%s] > ", state.Subject.DisplayName())

	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return errEnd
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}
	if input == "quit" || input == "exit" || input == ":quit" {
		return errEnd
	}
	if !strings.HasPrefix(input, ":") {
		return cli.solve(ctx, input, state.Subject)
	}

	command, argument, _ := strings.Cut(strings.TrimPrefix(input, ":"), " ")
	argument = strings.TrimSpace(argument)
	switch command {
	case "help":
		return cli.print(helpText)
	case "subject":
		return cli.selectSubject(argument)
	case "history":
		return cli.printHistory(state.History)
	case "select":
		return cli.selectEntry(argument, state.History)
	case "clear":
		cli.store.Clear()
		return cli.print("Cleared the history.\n")
	case "copy":
		return cli.copyAnswer(state.PendingResult)
	case "export":
		return cli.export(state.History, argument == "pdf")
	default:
		return cli.printError(fmt.Sprintf("Unknown command :%s. Type :help for the commands.", command))
	}
}

func (cli *TutorCLI) solve(ctx context.Context, query string, subject inference.Subject) error {
	_, _ = cli.faint.Fprintln(cli.stdoutWriter, "Solving...")

	entry, err := cli.store.Submit(ctx, query, subject)
	if err != nil {
		return cli.printError(cli.store.State().ErrorMessage)
	}
	return cli.printEntry(entry)
}

func (cli *TutorCLI) selectSubject(argument string) error {
	subject, err := inference.ParseSubject(argument)
	if err != nil {
		return cli.printError(fmt.Sprintf("Unknown subject %q. Use physics or math.", argument))
	}
	cli.store.SetSubject(subject)
	return cli.print(fmt.Sprintf("Subject: %s\n", subject.DisplayName()))
}

func (cli *TutorCLI) printHistory(history []session.HistoryEntry) error {
	if len(history) == 0 {
		return cli.print("No history yet.\n")
	}
	for i, entry := range history {
		if _, err := fmt.Fprintf(cli.stdoutWriter, "%d. %s %s %s\n",
			i+1,
			cli.faint.Sprint(entry.DisplayTime()),
			cli.bold.Sprintf("[%s]", entry.Subject.DisplayName()),
			firstLine(entry.Query),
		); err != nil {
			return fmt.Errorf("fmt.Fprintf() > %w", err)
		}
	}
	return nil
}

func (cli *TutorCLI) selectEntry(argument string, history []session.HistoryEntry) error {
	if len(history) == 0 {
		return cli.print("No history yet.\n")
	}
	number, err := strconv.Atoi(argument)
	if err != nil || number < 1 || number > len(history) {
		return cli.printError(fmt.Sprintf("Choose a number between 1 and %d from :history.", len(history)))
	}
	entry := history[number-1]
	cli.store.SelectFromHistory(entry)
	return cli.printEntry(entry)
}

func (cli *TutorCLI) copyAnswer(result *session.HistoryEntry) error {
	if result == nil {
		return cli.print("Nothing to copy yet.\n")
	}
	if cli.copier.Copy(result.Answer) {
		return cli.print("Copied the answer to the clipboard.\n")
	}
	return nil
}

func (cli *TutorCLI) export(history []session.HistoryEntry, withPDF bool) error {
	if len(history) == 0 {
		return cli.print("No history to export.\n")
	}
	files, err := cli.exporter.Export(transcript.New(transcriptTitle, history, cli.now()), withPDF)
	if err != nil {
		return fmt.Errorf("exporter.Export() > %w", err)
	}

	paths := []string{files.YAML, files.Markdown}
	if files.PDF != "" {
		paths = append(paths, files.PDF)
	}
	return cli.print(fmt.Sprintf("Exported %s\n", strings.Join(paths, ", ")))
}

func (cli *TutorCLI) printEntry(entry session.HistoryEntry) error {
	_, _ = cli.faint.Fprintf(cli.stdoutWriter, "%s  %s\n", entry.DisplayTime(), entry.Subject.DisplayName())
	if err := cli.terminal.Write(cli.stdoutWriter, render.Render(entry.Answer)); err != nil {
		return fmt.Errorf("terminal.Write() > %w", err)
	}
	return cli.print("\n")
}

func (cli *TutorCLI) print(text string) error {
	if _, err := fmt.Fprint(cli.stdoutWriter, text); err != nil {
		return fmt.Errorf("fmt.Fprint() > %w", err)
	}
	return nil
}

func (cli *TutorCLI) printError(message string) error {
	if _, err := cli.red.Fprintln(cli.stdoutWriter, message); err != nil {
		return fmt.Errorf("red.Fprintln() > %w", err)
	}
	return nil
}

func firstLine(text string) string {
	line, _, found := strings.Cut(strings.TrimSpace(text), "\n")
	if found {
		return line + " ..."
	}
	return line
}
