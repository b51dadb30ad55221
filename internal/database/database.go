// Package database provides SQLite persistence for hosted games: their
// metadata, state snapshots, the accepted action log and a readable
// history.
package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"hansa-teutonica/internal/logs"
)

// pragmas applied to every connection.
var pragmas = []string{
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"busy_timeout(5000)",
}

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

func dsn(path string) string {
	var b strings.Builder
	b.WriteString(path)
	for i, p := range pragmas {
		if i == 0 {
			b.WriteString("?")
		} else {
			b.WriteString("&")
		}
		b.WriteString("_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// New opens the database at dbPath, creating the file and its directory
// when missing, and brings the schema up to date.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// Session actors write concurrently; SQLite takes one writer.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	logs.Info("database ready", zap.String("path", dbPath), zap.Int("schema", db.Version()))
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Version returns the id of the newest applied migration, 0 for none.
func (db *DB) Version() int {
	var v sql.NullInt64
	if err := db.conn.QueryRow(`SELECT MAX(id) FROM migrations`).Scan(&v); err != nil {
		return 0
	}
	return int(v.Int64)
}

// withTx runs fn in a transaction, committing when it returns nil.
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (db *DB) migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.Wrap(err, "create migrations table")
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if applied[m.id] {
			continue
		}
		err := db.withTx(func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.sql); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO migrations (id, name) VALUES (?, ?)`, m.id, m.name)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "migration %d (%s)", m.id, m.name)
		}
		logs.Debug("migration applied", zap.Int("id", m.id), zap.String("name", m.name))
	}
	return nil
}

func (db *DB) appliedMigrations() (map[int]bool, error) {
	rows, err := db.conn.Query(`SELECT id FROM migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}
