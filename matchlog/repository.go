// Package matchlog stores finished matches in a sqlite database.
package matchlog

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/notnil/chess"
	_ "modernc.org/sqlite" // repository assumes sqlite

	"chessbots/game"
)

type Repository struct {
	db *sqlx.DB
}

// Record is one row of the matches table. Durations are stored in
// milliseconds and PlayedAt in Unix milliseconds.
type Record struct {
	ID            int64  `db:"id"`
	PlayedAt      int64  `db:"played_at"`
	White         string `db:"white"`
	Black         string `db:"black"`
	Outcome       string `db:"outcome"`
	Reason        string `db:"reason"`
	Loser         string `db:"loser"`
	Plies         int    `db:"plies"`
	TimeControlMS int64  `db:"time_control_ms"`
	WhiteLeftMS   int64  `db:"white_left_ms"`
	BlackLeftMS   int64  `db:"black_left_ms"`
	StartFEN      string `db:"start_fen"`
	PGN           string `db:"pgn"`
}

func (r *Record) Played() time.Time {
	return time.UnixMilli(r.PlayedAt)
}

// NewRecord captures a completed match played between the named bots.
func NewRecord(white, black string, m *game.Match, at time.Time) (Record, error) {
	res, ok := m.Result()
	if !ok {
		return Record{}, fmt.Errorf("match %s vs %s is not complete", white, black)
	}
	s := m.State()
	rec := Record{
		PlayedAt:      at.UnixMilli(),
		White:         white,
		Black:         black,
		Outcome:       string(res.Outcome),
		Reason:        res.Reason.String(),
		Plies:         res.Plies,
		TimeControlMS: m.Options().TimeControl.Milliseconds(),
		WhiteLeftMS:   s.White.Milliseconds(),
		BlackLeftMS:   s.Black.Milliseconds(),
		StartFEN:      m.Options().StartFEN,
		PGN:           m.PGN(),
	}
	if res.Side != chess.NoColor {
		rec.Loser = res.Side.Name()
	}
	return rec, nil
}

func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createMatchTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create matches table: %w", err)
	}
	if _, err := db.Exec(createBotView); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bot_matches view: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Insert(rec *Record) error {
	res, err := r.db.NamedExec(insertStmt, rec)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// InsertAll stores recs in one transaction.
func (r *Repository) InsertAll(recs []*Record) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareNamed(insertStmt)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, rec := range recs {
		res, err := stmt.Exec(rec)
		if err != nil {
			return fmt.Errorf("insert match %s vs %s: %w", rec.White, rec.Black, err)
		}
		if rec.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns up to limit matches, newest first.
func (r *Repository) Recent(limit int) ([]Record, error) {
	var out []Record
	if err := r.db.Select(&out, selectRecent, limit); err != nil {
		return nil, fmt.Errorf("select recent: %w", err)
	}
	return out, nil
}

// Standing is one bot's record across every stored match.
type Standing struct {
	Bot    string `db:"bot"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
	Draws  int    `db:"draws"`
}

func (r *Repository) Standings() ([]Standing, error) {
	var out []Standing
	if err := r.db.Select(&out, selectStanding); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}
	return out, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
