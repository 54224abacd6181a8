package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// stores sessions in a local sqlite file
type SQLiteRepository struct {
	db *sql.DB
}

// opens (or creates) the sqlite database at dsn
func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// creates the sessions table if it does not exist
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	for _, query := range []string{querySQLiteCreateTable, queryCreateIndex} {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to migrate sessions table: %w", err)
		}
	}

	return nil
}

// drops the sessions table
func (r *SQLiteRepository) Drop(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, queryDropTable); err != nil {
		return fmt.Errorf("failed to drop sessions table: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, session *Session) error {
	cols, err := encodeColumns(session)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(
		ctx,
		querySQLiteCreateSession,
		session.ID,
		session.Prompt,
		cols.Questions,
		cols.Answers,
		cols.Conversation,
		cols.FinalDesign,
		string(session.Status),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := scanSQLiteSession(r.db.QueryRowContext(ctx, querySQLiteGetSession, sessionID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int

	if err := r.db.QueryRowContext(ctx, queryCountSessions).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, querySQLiteListSessions, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	defer rows.Close() //nolint:errcheck
	sessions := []*Session{}

	for rows.Next() {
		s, err := scanSQLiteSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}

		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, total, nil
}

func (r *SQLiteRepository) UpdateSession(ctx context.Context, session *Session) error {
	cols, err := encodeColumns(session)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		querySQLiteUpdateSession,
		cols.Answers,
		cols.Conversation,
		cols.FinalDesign,
		string(session.Status),
		formatTime(session.UpdatedAt),
		session.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSession(row rowScanner) (*Session, error) {
	var (
		s                                Session
		status, createdAt, updatedAt     string
		questions, answers, conversation string
		finalDesign                      sql.NullString
	)

	err := row.Scan(
		&s.ID,
		&s.Prompt,
		&questions,
		&answers,
		&conversation,
		&finalDesign,
		&status,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	s.Status = Status(status)

	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	var designJSON []byte
	if finalDesign.Valid {
		designJSON = []byte(finalDesign.String)
	}

	if err := decodeColumns(&s, []byte(questions), []byte(answers), []byte(conversation), designJSON); err != nil {
		return nil, err
	}

	return &s, nil
}

// fixed-width UTC timestamps keep ORDER BY created_at correct on TEXT columns
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
