package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database
func Open(path string) (*DB, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate creates or updates the database schema
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		maneuver TEXT NOT NULL DEFAULT '',
		gear TEXT NOT NULL DEFAULT 'P',
		params TEXT,
		tick_ms INTEGER NOT NULL DEFAULT 1000,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		samples INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		ts DATETIME NOT NULL,
		channel TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT,
		band TEXT NOT NULL DEFAULT 'normal',
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		cron_expr TEXT NOT NULL,
		maneuver TEXT NOT NULL DEFAULT '',
		gear TEXT NOT NULL DEFAULT 'D',
		duration_secs INTEGER NOT NULL DEFAULT 60,
		tick_ms INTEGER NOT NULL DEFAULT 1000,
		enabled BOOLEAN DEFAULT 1,
		last_session_id INTEGER,
		last_run_time DATETIME,
		next_run_time DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (last_session_id) REFERENCES sessions(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_sessions_maneuver ON sessions(maneuver);
	CREATE INDEX IF NOT EXISTS idx_samples_session_id ON samples(session_id);
	CREATE INDEX IF NOT EXISTS idx_samples_channel ON samples(channel);
	CREATE INDEX IF NOT EXISTS idx_samples_band ON samples(band);
	CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);
	CREATE INDEX IF NOT EXISTS idx_schedules_next_run ON schedules(next_run_time);

	-- Trigger to update updated_at timestamp
	CREATE TRIGGER IF NOT EXISTS update_sessions_timestamp
	AFTER UPDATE ON sessions
	BEGIN
		UPDATE sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
	END;

	CREATE TRIGGER IF NOT EXISTS update_schedules_timestamp
	AFTER UPDATE ON schedules
	BEGIN
		UPDATE schedules SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateSession creates a new drive session record
func (db *DB) CreateSession(label, maneuver, gear string, tickMS int, params JSONData) (*Session, error) {
	session := &Session{
		Label:     label,
		Maneuver:  maneuver,
		Gear:      gear,
		Params:    params,
		TickMS:    tickMS,
		StartTime: time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := db.conn.Exec(
		`INSERT INTO sessions (label, maneuver, gear, params, tick_ms, start_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.Label, session.Maneuver, session.Gear, session.Params,
		session.TickMS, session.StartTime, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = id
	return session, nil
}

// UpdateSession updates a drive session record
func (db *DB) UpdateSession(session *Session) error {
	_, err := db.conn.Exec(
		`UPDATE sessions SET
		 end_time = ?, samples = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		session.EndTime, session.Samples, session.Error, time.Now(), session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(id int64) (*Session, error) {
	session := &Session{}
	err := db.conn.QueryRow(
		`SELECT id, label, maneuver, gear, params, tick_ms, start_time,
		 end_time, samples, error, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(
		&session.ID, &session.Label, &session.Maneuver, &session.Gear,
		&session.Params, &session.TickMS, &session.StartTime, &session.EndTime,
		&session.Samples, &session.Error, &session.CreatedAt, &session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions retrieves sessions based on filters
func (db *DB) ListSessions(filter SessionFilter) ([]*Session, error) {
	query := `SELECT id, label, maneuver, gear, params, tick_ms, start_time,
	          end_time, samples, error, created_at, updated_at
	          FROM sessions WHERE 1=1`
	args := []interface{}{}

	if filter.Maneuver != "" {
		query += " AND maneuver = ?"
		args = append(args, filter.Maneuver)
	}

	if filter.StartTime != nil {
		query += " AND start_time >= ?"
		args = append(args, filter.StartTime)
	}

	if filter.EndTime != nil {
		query += " AND start_time <= ?"
		args = append(args, filter.EndTime)
	}

	query += " ORDER BY start_time DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*Session
	for rows.Next() {
		session := &Session{}
		err := rows.Scan(
			&session.ID, &session.Label, &session.Maneuver, &session.Gear,
			&session.Params, &session.TickMS, &session.StartTime, &session.EndTime,
			&session.Samples, &session.Error, &session.CreatedAt, &session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// CreateSample creates a single sample record
func (db *DB) CreateSample(sessionID int64, ts time.Time, channel string, value float64, unit, band string) error {
	_, err := db.conn.Exec(
		`INSERT INTO samples (session_id, ts, channel, value, unit, band) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, ts, channel, value, unit, band,
	)
	if err != nil {
		return fmt.Errorf("failed to create sample: %w", err)
	}
	return nil
}

// CreateSamples creates multiple sample records in a transaction
func (db *DB) CreateSamples(samples []*Sample) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Only rollback if we haven't committed
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(
		`INSERT INTO samples (session_id, ts, channel, value, unit, band) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range samples {
		if _, err := stmt.Exec(s.SessionID, s.Timestamp, s.Channel, s.Value, s.Unit, s.Band); err != nil {
			return fmt.Errorf("failed to insert sample %s: %w", s.Channel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSamples retrieves all samples for a session
func (db *DB) GetSamples(sessionID int64) ([]*Sample, error) {
	rows, err := db.conn.Query(
		`SELECT id, session_id, ts, channel, value, unit, band
		 FROM samples WHERE session_id = ? ORDER BY ts, channel`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []*Sample
	for rows.Next() {
		sample := &Sample{}
		err := rows.Scan(
			&sample.ID, &sample.SessionID, &sample.Timestamp,
			&sample.Channel, &sample.Value, &sample.Unit, &sample.Band,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// ListSamples retrieves samples based on filters
func (db *DB) ListSamples(filter SampleFilter) ([]*Sample, error) {
	query := `SELECT id, session_id, ts, channel, value, unit, band
	          FROM samples WHERE 1=1`
	args := []interface{}{}

	if filter.SessionID != nil {
		query += " AND session_id = ?"
		args = append(args, *filter.SessionID)
	}

	if filter.Channel != "" {
		query += " AND channel = ?"
		args = append(args, filter.Channel)
	}

	if filter.Band != "" {
		query += " AND band = ?"
		args = append(args, filter.Band)
	}

	query += " ORDER BY ts DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []*Sample
	for rows.Next() {
		sample := &Sample{}
		err := rows.Scan(
			&sample.ID, &sample.SessionID, &sample.Timestamp,
			&sample.Channel, &sample.Value, &sample.Unit, &sample.Band,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// ChannelSummary aggregates min/max/avg per channel for a session.
func (db *DB) ChannelSummary(sessionID int64) ([]*ChannelAggregate, error) {
	rows, err := db.conn.Query(
		`SELECT channel, COALESCE(unit, ''), MIN(value), MAX(value), AVG(value), COUNT(*)
		 FROM samples WHERE session_id = ? GROUP BY channel ORDER BY channel`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize session: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var aggs []*ChannelAggregate
	for rows.Next() {
		agg := &ChannelAggregate{}
		err := rows.Scan(&agg.Channel, &agg.Unit, &agg.Min, &agg.Max, &agg.Avg, &agg.Count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		aggs = append(aggs, agg)
	}

	return aggs, nil
}
