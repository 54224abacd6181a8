package sessions

// postgres queries
const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			prompt       TEXT NOT NULL,
			questions    JSONB NOT NULL DEFAULT '[]'::jsonb,
			answers      JSONB NOT NULL DEFAULT '[]'::jsonb,
			conversation JSONB NOT NULL DEFAULT '[]'::jsonb,
			final_design JSONB,
			status       TEXT NOT NULL DEFAULT 'in_progress'
				CHECK (status IN ('in_progress', 'ready_to_finalize', 'completed')),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	queryCreateIndex = `CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions (created_at DESC, id DESC)`

	queryDropTable = `DROP TABLE IF EXISTS sessions`

	queryCreateSession = `
		INSERT INTO sessions (id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb, $7, $8, $9)
	`

	queryGetSession = `
		SELECT id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	queryListSessions = `
		SELECT id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	queryCountSessions = `
		SELECT COUNT(*)
		FROM sessions
	`

	queryUpdateSession = `
		UPDATE sessions
		SET answers = $2::jsonb,
		    conversation = $3::jsonb,
		    final_design = $4::jsonb,
		    status = $5,
		    updated_at = $6
		WHERE id = $1
	`
)

// sqlite queries, JSON kept as TEXT and timestamps as RFC3339 strings
const (
	querySQLiteCreateTable = `
		CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			prompt       TEXT NOT NULL,
			questions    TEXT NOT NULL DEFAULT '[]',
			answers      TEXT NOT NULL DEFAULT '[]',
			conversation TEXT NOT NULL DEFAULT '[]',
			final_design TEXT,
			status       TEXT NOT NULL DEFAULT 'in_progress'
				CHECK (status IN ('in_progress', 'ready_to_finalize', 'completed')),
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)
	`

	querySQLiteCreateSession = `
		INSERT INTO sessions (id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	querySQLiteGetSession = `
		SELECT id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	querySQLiteListSessions = `
		SELECT id, prompt, questions, answers, conversation, final_design, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	querySQLiteUpdateSession = `
		UPDATE sessions
		SET answers = ?, conversation = ?, final_design = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
)
