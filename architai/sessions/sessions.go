package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stores sessions in postgres, list and document fields as JSONB
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// creates the sessions table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	for _, query := range []string{queryCreateTable, queryCreateIndex} {
		if _, err := r.db.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to migrate sessions table: %w", err)
		}
	}

	return nil
}

// drops the sessions table
func (r *PostgresRepository) Drop(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, queryDropTable); err != nil {
		return fmt.Errorf("failed to drop sessions table: %w", err)
	}

	return nil
}

// inserts a new session
func (r *PostgresRepository) CreateSession(ctx context.Context, session *Session) error {
	cols, err := encodeColumns(session)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		queryCreateSession,
		session.ID,
		session.Prompt,
		cols.Questions,
		cols.Answers,
		cols.Conversation,
		cols.FinalDesign,
		string(session.Status),
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// retrieves a session by ID
func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := scanPostgresSession(r.db.QueryRow(ctx, queryGetSession, sessionID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// lists sessions newest first with the total count
func (r *PostgresRepository) ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int

	if err := r.db.QueryRow(ctx, queryCountSessions).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	rows, err := r.db.Query(ctx, queryListSessions, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	defer rows.Close()
	sessions := []*Session{}

	for rows.Next() {
		s, err := scanPostgresSession(rows)
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

// persists answers, conversation, design and status of an existing session
func (r *PostgresRepository) UpdateSession(ctx context.Context, session *Session) error {
	cols, err := encodeColumns(session)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(
		ctx,
		queryUpdateSession,
		session.ID,
		cols.Answers,
		cols.Conversation,
		cols.FinalDesign,
		string(session.Status),
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func scanPostgresSession(row pgx.Row) (*Session, error) {
	var (
		s                                                 Session
		status                                            string
		questions, answers, conversation, finalDesignJSON []byte
	)

	err := row.Scan(
		&s.ID,
		&s.Prompt,
		&questions,
		&answers,
		&conversation,
		&finalDesignJSON,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	s.Status = Status(status)

	if err := decodeColumns(&s, questions, answers, conversation, finalDesignJSON); err != nil {
		return nil, err
	}

	return &s, nil
}
