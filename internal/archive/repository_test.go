package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/session"
)

var recordColumns = []string{"id", "session_id", "subject", "query", "answer", "created_at", "archived_at"}

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_Create(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := session.HistoryEntry{
		ID:        "3f1c4a2e-0000-4000-8000-000000000001",
		Subject:   inference.SubjectMath,
		Query:     "2+2",
		Answer:    `\boxed{4}`,
		CreatedAt: now,
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "inserts entry",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT IGNORE INTO history_entries").
					WithArgs(entry.ID, "session-1", "math", "2+2", `\boxed{4}`, now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT IGNORE INTO history_entries").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := NewRecorder(repo, "session-1").Record(context.Background(), entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindBySession(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns entries",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(recordColumns).
					AddRow("id-2", "s1", "physics", "g?", "9.8", now.Add(time.Minute), now).
					AddRow("id-1", "s1", "math", "2+2", "4", now, now)
				mock.ExpectQuery("SELECT \\* FROM history_entries WHERE session_id = \\? ORDER BY created_at DESC").
					WithArgs("s1").
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM history_entries").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindBySession(context.Background(), "s1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, "id-2", got[0].ID)
			assert.Equal(t, session.HistoryEntry{
				ID:        "id-1",
				Subject:   inference.SubjectMath,
				Query:     "2+2",
				Answer:    "4",
				CreatedAt: now,
			}, got[1].HistoryEntry())
		})
	}
}

func TestDBRepository_FindRecent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows(recordColumns).
		AddRow("id-1", "s1", "math", "2+2", "4", now, now)
	mock.ExpectQuery("SELECT \\* FROM history_entries ORDER BY created_at DESC LIMIT \\?").
		WithArgs(10).
		WillReturnRows(rows)

	got, err := repo.FindRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
