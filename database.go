package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite telemetry store. It records what happened on the
// server (games, shots, hits); room and game state itself lives only in
// memory and dies with the process.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps the background writer from stalling readers
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS telemetry_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		room_id TEXT,
		player_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_telemetry_type ON telemetry_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_telemetry_room ON telemetry_events(room_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// EventCounts returns total event counts grouped by type
func (db *DB) EventCounts() (map[string]int64, error) {
	rows, err := db.conn.Query(
		"SELECT event_type, COUNT(*) FROM telemetry_events GROUP BY event_type",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			continue
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
