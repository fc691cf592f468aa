// Package recorder persists probe sessions to sqlite so that they can be
// replayed through the pointing engine or rendered as reports later.
package recorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
)

var logf = monitoring.Tagged("recorder")

// ErrSessionNotFound is returned when a session ID is not in the store.
var ErrSessionNotFound = errors.New("session not found")

// Store wraps the sqlite database holding sessions and ticks.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the database at path and applies all
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SessionInfo describes one recorded session.
type SessionInfo struct {
	ID        string
	Source    string
	Coverage  string
	StartedAt time.Time
}

// Tick is one recorded sampling tick.
type Tick struct {
	Seq        uint64
	CapturedAt time.Time
	Points     pointing.PointSet
	Result     pointing.PointingResult
	Outcome    string
}

// Session appends ticks to one recorded session.
type Session struct {
	SessionInfo
	store *Store
}

// StartSession creates a new session with a random ID.
func (s *Store) StartSession(source, coverage string, startedAt time.Time) (*Session, error) {
	info := SessionInfo{
		ID:        uuid.NewString(),
		Source:    source,
		Coverage:  coverage,
		StartedAt: startedAt,
	}
	_, err := s.Exec(
		`INSERT INTO sessions (session_id, source, coverage, started_unix_nanos) VALUES (?, ?, ?, ?)`,
		info.ID, info.Source, info.Coverage, info.StartedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	logf("started session %s (source=%s coverage=%s)", info.ID, source, coverage)
	return &Session{SessionInfo: info, store: s}, nil
}

// RecordTick stores one tick for the session.
func (s *Session) RecordTick(t Tick) error {
	points, err := json.Marshal(t.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal points: %w", err)
	}
	_, err = s.store.Exec(
		`INSERT INTO ticks (
			session_id, seq, captured_unix_nanos, points_json, hit, x, y, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, t.Seq, t.CapturedAt.UnixNano(), string(points), t.Result.Hit, t.Result.X, t.Result.Y, t.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tick %d: %w", t.Seq, err)
	}
	return nil
}

// Session looks up a session by ID.
func (s *Store) Session(id string) (SessionInfo, error) {
	var (
		info  SessionInfo
		nanos int64
	)
	err := s.QueryRow(
		`SELECT session_id, source, coverage, started_unix_nanos FROM sessions WHERE session_id = ?`, id,
	).Scan(&info.ID, &info.Source, &info.Coverage, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return SessionInfo{}, err
	}
	info.StartedAt = time.Unix(0, nanos).UTC()
	return info, nil
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions() ([]SessionInfo, error) {
	rows, err := s.Query(
		`SELECT session_id, source, coverage, started_unix_nanos FROM sessions ORDER BY started_unix_nanos DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info  SessionInfo
			nanos int64
		)
		if err := rows.Scan(&info.ID, &info.Source, &info.Coverage, &nanos); err != nil {
			return nil, err
		}
		info.StartedAt = time.Unix(0, nanos).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Ticks returns every tick of a session in sequence order.
func (s *Store) Ticks(sessionID string) ([]Tick, error) {
	if _, err := s.Session(sessionID); err != nil {
		return nil, err
	}

	rows, err := s.Query(
		`SELECT seq, captured_unix_nanos, points_json, hit, x, y, outcome
		FROM ticks WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tick
	for rows.Next() {
		var (
			t      Tick
			nanos  int64
			points string
		)
		if err := rows.Scan(&t.Seq, &nanos, &points, &t.Result.Hit, &t.Result.X, &t.Result.Y, &t.Outcome); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(points), &t.Points); err != nil {
			return nil, fmt.Errorf("tick %d: failed to unmarshal points: %w", t.Seq, err)
		}
		t.CapturedAt = time.Unix(0, nanos).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// PointSets returns only the raw inputs of a session, for replay.
func (s *Store) PointSets(sessionID string) ([]pointing.PointSet, error) {
	ticks, err := s.Ticks(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]pointing.PointSet, len(ticks))
	for i, t := range ticks {
		out[i] = t.Points
	}
	return out, nil
}

// OutcomeCounts returns the number of ticks per outcome label.
func (s *Store) OutcomeCounts(sessionID string) (map[string]int, error) {
	rows, err := s.Query(
		`SELECT outcome, COUNT(*) FROM ticks WHERE session_id = ? GROUP BY outcome`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
