package state

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"cruisewatch/logger"
)

// SqliteStore implements Store on a single-row sqlite table
type SqliteStore struct {
	conn *sql.DB
	log  *logger.Logger
}

// NewSqliteStore opens (and if needed initializes) a sqlite-backed store
func NewSqliteStore(path string) (*SqliteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS last_seen (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		title TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := conn.Exec(createTableSQL); err != nil {
		conn.Close()
		return nil, err
	}

	return &SqliteStore{
		conn: conn,
		log:  logger.ForState(),
	}, nil
}

// Get retrieves the last-seen record, or a zero record when never set
func (s *SqliteStore) Get() (Record, error) {
	var r Record
	err := s.conn.QueryRow("SELECT title, price FROM last_seen WHERE id = 1").Scan(&r.Title, &r.Price)
	if err == sql.ErrNoRows {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// Set overwrites the single slot entirely
func (s *SqliteStore) Set(r Record) error {
	_, err := s.conn.Exec(
		`INSERT INTO last_seen (id, title, price) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, price = excluded.price`,
		r.Title, r.Price,
	)
	if err != nil {
		return err
	}
	s.log.Debug().Str("title", r.Title).Int("price", r.Price).Msg("Record written")
	return nil
}

// Close closes the database connection
func (s *SqliteStore) Close() error {
	return s.conn.Close()
}
