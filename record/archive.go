package record

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	dark        TEXT NOT NULL,
	light       TEXT NOT NULL,
	script      TEXT NOT NULL,
	dark_score  INTEGER NOT NULL,
	light_score INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	played_at   INTEGER NOT NULL
);`

// Entry is an archived game
type Entry struct {
	ID       int64
	Dark     string
	Light    string
	Script   *Script
	PlayedAt time.Time
}

// Archive stores finished games in a SQLite database
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) the archive at path. ":memory:"
// gives a throwaway archive.
func OpenArchive(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	// An in-memory database only lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	log.Debug().Msgf("opened game archive %s", path)
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Save archives a game and returns its id
func (a *Archive) Save(ctx context.Context, dark, light string, script *Script, playedAt time.Time) (int64, error) {
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO games (dark, light, script, dark_score, light_score, size, played_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dark, light, script.String(), script.DarkScore, script.LightScore, script.Size, playedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to archive game: %w", err)
	}
	return res.LastInsertId()
}

// All returns the archived games of the given board size, oldest first.
// A size of 0 returns every game.
func (a *Archive) All(ctx context.Context, size int) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, dark, light, script, played_at FROM games WHERE ? = 0 OR size = ? ORDER BY id`, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			text   string
			played int64
		)
		if err := rows.Scan(&e.ID, &e.Dark, &e.Light, &text, &played); err != nil {
			return nil, fmt.Errorf("failed to read archived game: %w", err)
		}
		e.PlayedAt = time.Unix(0, played).UTC()
		e.Script, err = Parse(text)
		if err != nil {
			return nil, fmt.Errorf("archived game %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
