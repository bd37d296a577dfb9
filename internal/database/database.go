package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to an in-memory database opens a fresh one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- REVEAL Database Schema

-- Users are the authors of revisions.
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    display_name TEXT NOT NULL
);

-- Pages are the translatable content items.
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    current_revision_id INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Page translations list the languages of a page in insertion order.
CREATE TABLE IF NOT EXISTS page_translations (
    page_id INTEGER NOT NULL,
    langcode TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (page_id, langcode),
    FOREIGN KEY(page_id) REFERENCES pages(id)
);

-- Revisions are the history of a page. Unpublished revisions are kept.
CREATE TABLE IF NOT EXISTS revisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    author_id INTEGER NOT NULL,
    log TEXT,
    published INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(page_id) REFERENCES pages(id),
    FOREIGN KEY(author_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS revisions_page_id ON revisions (page_id, id);

-- Revision translations hold the per-language content of a revision.
CREATE TABLE IF NOT EXISTS revision_translations (
    revision_id INTEGER NOT NULL,
    langcode TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    PRIMARY KEY (revision_id, langcode),
    FOREIGN KEY(revision_id) REFERENCES revisions(id)
);
`)
	return err
}
