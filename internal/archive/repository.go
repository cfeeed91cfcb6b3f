// Package archive keeps a copy of solved questions in MySQL.
// The live session never reads from it.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/tutor/internal/config"
	"github.com/at-ishikawa/tutor/internal/database"
	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/session"
	"github.com/at-ishikawa/tutor/schemas"
)

// Record is an archived history entry.
type Record struct {
	ID         string    `db:"id" yaml:"id"`
	SessionID  string    `db:"session_id" yaml:"session_id"`
	Subject    string    `db:"subject" yaml:"subject"`
	Query      string    `db:"query" yaml:"query"`
	Answer     string    `db:"answer" yaml:"answer"`
	CreatedAt  time.Time `db:"created_at" yaml:"created_at"`
	ArchivedAt time.Time `db:"archived_at" yaml:"archived_at"`
}

func (r Record) HistoryEntry() session.HistoryEntry {
	return session.HistoryEntry{
		ID:        r.ID,
		Subject:   inference.Subject(r.Subject),
		Query:     r.Query,
		Answer:    r.Answer,
		CreatedAt: r.CreatedAt,
	}
}

// Repository defines operations for archived history entries.
type Repository interface {
	Create(ctx context.Context, sessionID string, entry session.HistoryEntry) error
	FindBySession(ctx context.Context, sessionID string) ([]Record, error)
	FindRecent(ctx context.Context, limit int) ([]Record, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Connect opens the archive database, waits until it answers and applies
// the embedded migrations.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DBRepository, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Ping(ctx, db, database.DefaultPingAttempts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Ping() > %w", err)
	}
	if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return NewDBRepository(db), nil
}

func (r *DBRepository) Close() error {
	return r.db.Close()
}

// Create inserts an entry. Archiving the same entry twice is a no-op.
func (r *DBRepository) Create(ctx context.Context, sessionID string, entry session.HistoryEntry) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO history_entries (id, session_id, subject, query, answer, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, sessionID, string(entry.Subject), entry.Query, entry.Answer, entry.CreatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(insert history_entry) > %w", err)
	}
	return nil
}

// FindBySession returns a session's entries, most recent first like the live history.
func (r *DBRepository) FindBySession(ctx context.Context, sessionID string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM history_entries WHERE session_id = ? ORDER BY created_at DESC",
		sessionID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(history_entries by session) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) FindRecent(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM history_entries ORDER BY created_at DESC LIMIT ?",
		limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(recent history_entries) > %w", err)
	}
	return records, nil
}

// Recorder archives the entries of one session.
type Recorder struct {
	repository Repository
	sessionID  string
}

func NewRecorder(repository Repository, sessionID string) *Recorder {
	return &Recorder{repository: repository, sessionID: sessionID}
}

// Record implements session.Recorder
func (r *Recorder) Record(ctx context.Context, entry session.HistoryEntry) error {
	return r.repository.Create(ctx, r.sessionID, entry)
}
