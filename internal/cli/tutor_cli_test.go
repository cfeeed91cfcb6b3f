package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/tutor/internal/inference"
	mock_inference "github.com/at-ishikawa/tutor/internal/mocks/inference"
	"github.com/at-ishikawa/tutor/internal/render"
	"github.com/at-ishikawa/tutor/internal/session"
	"github.com/at-ishikawa/tutor/internal/transcript"
)

type fakeCopier struct {
	ok     bool
	copied []string
}

func (c *fakeCopier) Copy(text string) bool {
	c.copied = append(c.copied, text)
	return c.ok
}

func newTestCLI(t *testing.T, client inference.Client, copier *fakeCopier, input string) (*TutorCLI, *bytes.Buffer, string) {
	t.Helper()
	color.NoColor = true

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := func() time.Time { return now }
	id := 0
	store := session.NewStore(client, inference.SubjectPhysics,
		session.WithClock(clock),
		session.WithIDGenerator(func() string {
			id++
			return fmt.Sprintf("entry-%d", id)
		}),
	)

	exportDir := t.TempDir()
	var output bytes.Buffer
	return &TutorCLI{
		store:        store,
		exporter:     transcript.NewExporter(exportDir, ""),
		copier:       copier,
		terminal:     render.NewTerminal(),
		now:          clock,
		stdinReader:  bufio.NewReader(strings.NewReader(input)),
		stdoutWriter: &output,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		red:          color.New(color.FgRed),
	}, &output, exportDir
}

// runSessions handles every line of the input like Run does
func runSessions(cli *TutorCLI) error {
	for {
		if err := cli.Session(context.Background()); err != nil {
			if errors.Is(err, errEnd) {
				return nil
			}
			return err
		}
	}
}

func TestTutorCLI_Session(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		setupMock  func(client *mock_inference.MockClient)
		copierOK   bool
		wantOutput []string
		notOutput  []string
		validate   func(t *testing.T, cli *TutorCLI, copier *fakeCopier, exportDir string)
	}{
		{
			name:  "solves a question",
			input: "What is g?\nquit\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().
					Solve(gomock.Any(), inference.SolveRequest{Query: "What is g?", Subject: inference.SubjectPhysics}).
					Return(inference.SolveResponse{Answer: "**Solution**\n- use $g$\n\\boxed{9.8\\ m/s^2}"}, nil)
			},
			wantOutput: []string{"[Physics] > ", "Solving...", "Solution\n  • use g\n[ 9.8\\ m/s² ]\n"},
			validate: func(t *testing.T, cli *TutorCLI, _ *fakeCopier, _ string) {
				assert.Len(t, cli.store.State().History, 1)
			},
		},
		{
			name:  "shows the error message when solving fails",
			input: "What is g?\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().
					Solve(gomock.Any(), gomock.Any()).
					Return(inference.SolveResponse{}, &inference.APIError{StatusCode: 500, Body: "oops"})
			},
			wantOutput: []string{"The tutor service returned an error (HTTP 500). Please try again."},
			validate: func(t *testing.T, cli *TutorCLI, _ *fakeCopier, _ string) {
				assert.Equal(t, session.PhaseFailed, cli.store.Phase())
				assert.Empty(t, cli.store.State().History)
			},
		},
		{
			name:  "switches the subject",
			input: ":subject math\n2+2\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().
					Solve(gomock.Any(), inference.SolveRequest{Query: "2+2", Subject: inference.SubjectMath}).
					Return(inference.SolveResponse{Answer: "\\boxed{4}"}, nil)
			},
			wantOutput: []string{"Subject: Mathematics", "[Mathematics] > ", "[ 4 ]"},
		},
		{
			name:       "rejects an unknown subject",
			input:      ":subject chemistry\n",
			wantOutput: []string{`Unknown subject "chemistry". Use physics or math.`},
			validate: func(t *testing.T, cli *TutorCLI, _ *fakeCopier, _ string) {
				assert.Equal(t, inference.SubjectPhysics, cli.store.State().Subject)
			},
		},
		{
			name:  "lists and selects history",
			input: "q1\nq2\n:history\n:select 2\n",
			setupMock: func(client *mock_inference.MockClient) {
				gomock.InOrder(
					client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "first answer"}, nil),
					client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "second answer"}, nil),
				)
			},
			wantOutput: []string{"[Physics] q2\n", "[Physics] q1\n"},
			validate: func(t *testing.T, cli *TutorCLI, _ *fakeCopier, _ string) {
				state := cli.store.State()
				require.NotNil(t, state.PendingResult)
				assert.Equal(t, "entry-1", state.PendingResult.ID)
				assert.Equal(t, "q1", state.Query)
				assert.Len(t, state.History, 2)
			},
		},
		{
			name:       "select without history",
			input:      ":select 1\n",
			wantOutput: []string{"No history yet."},
		},
		{
			name:  "select out of range",
			input: "q1\n:select 3\n:select x\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "a"}, nil)
			},
			wantOutput: []string{"Choose a number between 1 and 1 from :history."},
		},
		{
			name:  "clears the history",
			input: "q1\n:clear\n:history\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "a"}, nil)
			},
			wantOutput: []string{"Cleared the history.", "No history yet."},
			validate: func(t *testing.T, cli *TutorCLI, _ *fakeCopier, _ string) {
				assert.Equal(t, session.PhaseIdle, cli.store.Phase())
			},
		},
		{
			name:  "copies the current answer",
			input: "q1\n:copy\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "\\boxed{4}"}, nil)
			},
			copierOK:   true,
			wantOutput: []string{"Copied the answer to the clipboard."},
			validate: func(t *testing.T, _ *TutorCLI, copier *fakeCopier, _ string) {
				assert.Equal(t, []string{"\\boxed{4}"}, copier.copied)
			},
		},
		{
			name:  "copy failure is silent",
			input: "q1\n:copy\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "a"}, nil)
			},
			copierOK:  false,
			notOutput: []string{"Copied"},
		},
		{
			name:       "nothing to copy",
			input:      ":copy\n",
			wantOutput: []string{"Nothing to copy yet."},
		},
		{
			name:  "exports the history",
			input: "q1\n:export\n",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(inference.SolveResponse{Answer: "a"}, nil)
			},
			wantOutput: []string{"Exported "},
			validate: func(t *testing.T, _ *TutorCLI, _ *fakeCopier, exportDir string) {
				assert.FileExists(t, filepath.Join(exportDir, "transcript-20250102-030405.yml"))
				markdown, err := os.ReadFile(filepath.Join(exportDir, "transcript-20250102-030405.md"))
				require.NoError(t, err)
				assert.Contains(t, string(markdown), "> q1")
			},
		},
		{
			name:       "nothing to export",
			input:      ":export\n",
			wantOutput: []string{"No history to export."},
		},
		{
			name:       "unknown command",
			input:      ":solve\n",
			wantOutput: []string{"Unknown command :solve. Type :help for the commands."},
		},
		{
			name:       "help",
			input:      ":help\n",
			wantOutput: []string{":select N"},
		},
		{
			name:  "last line without a newline is handled",
			input: "\n   \nq1",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().
					Solve(gomock.Any(), inference.SolveRequest{Query: "q1", Subject: inference.SubjectPhysics}).
					Return(inference.SolveResponse{Answer: "a"}, nil)
			},
			wantOutput: []string{"a\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(client)
			}
			copier := &fakeCopier{ok: tt.copierOK}

			cli, output, exportDir := newTestCLI(t, client, copier, tt.input)
			require.NoError(t, runSessions(cli))

			for _, want := range tt.wantOutput {
				assert.Contains(t, output.String(), want)
			}
			for _, notWant := range tt.notOutput {
				assert.NotContains(t, output.String(), notWant)
			}
			if tt.validate != nil {
				tt.validate(t, cli, copier, exportDir)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "solve x", firstLine("  solve x  "))
	assert.Equal(t, "solve x ...", firstLine("solve x\nwith y = 2"))
}
