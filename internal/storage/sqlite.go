// Package storage provides SQLite-based persistence for match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/ringout/internal/session"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is one stored match.
type MatchRecord struct {
	ID        int64
	MatchID   string
	StageID   string
	Winner    int // 1-based player number, 0 when nobody won
	Reason    string
	Lives1    int
	Lives2    int
	Ticks     int64
	Duration  time.Duration
	CreatedAt time.Time
}

// StageStats contains aggregated statistics for a stage.
type StageStats struct {
	StageID     string
	Matches     int
	Wins        [2]int // Completed matches won by player 1 and player 2
	AvgDuration time.Duration
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			stage_id TEXT NOT NULL,
			winner INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			lives1 INTEGER NOT NULL DEFAULT 0,
			lives2 INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_stage_id ON matches(stage_id);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a match. Returns the ID of the inserted record.
func (s *Store) SaveMatch(r MatchRecord) (int64, error) {
	if r.MatchID == "" {
		return 0, errors.New("storage: match ID is required")
	}

	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, stage_id, winner, end_reason, lives1, lives2, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID,
		r.StageID,
		r.Winner,
		r.Reason,
		r.Lives1,
		r.Lives2,
		r.Ticks,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult implements session.ResultSaver.
func (s *Store) SaveMatchResult(mr session.MatchResult) error {
	_, err := s.SaveMatch(RecordFromResult(mr))
	return err
}

// Ensure Store implements ResultSaver
var _ session.ResultSaver = (*Store)(nil)

// RecordFromResult converts a session result into a storable record.
func RecordFromResult(mr session.MatchResult) MatchRecord {
	r := MatchRecord{
		MatchID:  mr.MatchID.String(),
		StageID:  mr.StageID,
		Reason:   mr.Reason.String(),
		Lives1:   mr.Lives[0],
		Lives2:   mr.Lives[1],
		Ticks:    int64(mr.Ticks),
		Duration: mr.Duration,
	}
	if mr.HasWin {
		r.Winner = int(mr.Winner) + 1
	}
	return r
}

const matchColumns = `id, match_id, stage_id, winner, end_reason, lives1, lives2, ticks, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var r MatchRecord
	var durationMs int64
	var createdAt any
	if err := row.Scan(
		&r.ID,
		&r.MatchID,
		&r.StageID,
		&r.Winner,
		&r.Reason,
		&r.Lives1,
		&r.Lives2,
		&r.Ticks,
		&durationMs,
		&createdAt,
	); err != nil {
		return r, err
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
}

// parseTimestamp handles both time.Time and string datetimes.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	r, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &r, nil
}

// RecentMatches retrieves the most recent matches, newest first.
// An empty stageID matches every stage.
func (s *Store) RecentMatches(stageID string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR stage_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		stageID, stageID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearMatches deletes the history of one stage, or all history when
// stageID is empty.
func (s *Store) ClearMatches(stageID string) error {
	_, err := s.db.Exec("DELETE FROM matches WHERE ? = '' OR stage_id = ?", stageID, stageID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// AllStageStats retrieves statistics for every stage that has been played.
func (s *Store) AllStageStats() (map[string]*StageStats, error) {
	rows, err := s.db.Query(
		`SELECT stage_id, COUNT(*),
		        SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner = 2 THEN 1 ELSE 0 END),
		        AVG(duration_ms), MAX(created_at)
		 FROM matches
		 GROUP BY stage_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StageStats)
	for rows.Next() {
		var st StageStats
		var avgMs float64
		var lastPlayed any
		if err := rows.Scan(&st.StageID, &st.Matches, &st.Wins[0], &st.Wins[1], &avgMs, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.AvgDuration = time.Duration(avgMs * float64(time.Millisecond))
		st.LastPlayed = parseTimestamp(lastPlayed)
		stats[st.StageID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
