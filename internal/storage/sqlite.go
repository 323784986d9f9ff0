// Package storage provides SQLite-based persistence for saved games.
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
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection of the save file.
type Store struct {
	db   *sql.DB
	path string
}

// CharacterRecord is the persisted part of a team member. Base stats are
// recomputed from the level, only the progression is stored.
type CharacterRecord struct {
	Name      string
	Level     int
	TeamOrder int
	HP        int
	MP        int
	HPBonus   int
	MPBonus   int
	AtkBonus  int
	DefBonus  int
	AgtBonus  int
	LuckBonus int
	UpdatedAt time.Time
}

// Battle outcomes.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
	OutcomeQuit = "quit"
)

// BattleRecord represents the result of one fight.
type BattleRecord struct {
	ID        int64
	Map       string
	Enemies   int
	Outcome   string
	Duration  time.Duration
	CreatedAt time.Time
}

// BattleStats contains aggregated statistics over every recorded battle.
type BattleStats struct {
	Count      int
	Won        int
	Lost       int
	LastPlayed time.Time
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

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, path: dbPath}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS characters (
			name TEXT PRIMARY KEY,
			level INTEGER NOT NULL DEFAULT 1,
			team_order INTEGER NOT NULL DEFAULT 0,
			hp INTEGER NOT NULL,
			mp INTEGER NOT NULL,
			hp_bonus INTEGER NOT NULL DEFAULT 0,
			mp_bonus INTEGER NOT NULL DEFAULT 0,
			atk_bonus INTEGER NOT NULL DEFAULT 0,
			def_bonus INTEGER NOT NULL DEFAULT 0,
			agt_bonus INTEGER NOT NULL DEFAULT 0,
			luck_bonus INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_characters_team ON characters(team_order);

		CREATE TABLE IF NOT EXISTS properties (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS battles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map TEXT NOT NULL,
			enemies INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_battles_outcome ON battles(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the location of the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCharacter inserts or replaces the record of a team member.
func (s *Store) SaveCharacter(c CharacterRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO characters
		 (name, level, team_order, hp, mp, hp_bonus, mp_bonus, atk_bonus, def_bonus, agt_bonus, luck_bonus, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   level = excluded.level,
		   team_order = excluded.team_order,
		   hp = excluded.hp,
		   mp = excluded.mp,
		   hp_bonus = excluded.hp_bonus,
		   mp_bonus = excluded.mp_bonus,
		   atk_bonus = excluded.atk_bonus,
		   def_bonus = excluded.def_bonus,
		   agt_bonus = excluded.agt_bonus,
		   luck_bonus = excluded.luck_bonus,
		   updated_at = CURRENT_TIMESTAMP`,
		c.Name, c.Level, c.TeamOrder, c.HP, c.MP,
		c.HPBonus, c.MPBonus, c.AtkBonus, c.DefBonus, c.AgtBonus, c.LuckBonus,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save character %s: %w", c.Name, err)
	}
	return nil
}

const characterColumns = `name, level, team_order, hp, mp, hp_bonus, mp_bonus,
	atk_bonus, def_bonus, agt_bonus, luck_bonus, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (CharacterRecord, error) {
	var c CharacterRecord
	var updatedAt any
	err := row.Scan(
		&c.Name,
		&c.Level,
		&c.TeamOrder,
		&c.HP,
		&c.MP,
		&c.HPBonus,
		&c.MPBonus,
		&c.AtkBonus,
		&c.DefBonus,
		&c.AgtBonus,
		&c.LuckBonus,
		&updatedAt,
	)
	c.UpdatedAt = parseTime(updatedAt)
	return c, err
}

// LoadCharacter retrieves a team member by name.
func (s *Store) LoadCharacter(name string) (CharacterRecord, error) {
	row := s.db.QueryRow(`SELECT `+characterColumns+` FROM characters WHERE name = ?`, name)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("storage: character %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("storage: cannot query character: %w", err)
	}
	return c, nil
}

// ListCharacters retrieves every saved character in team order.
func (s *Store) ListCharacters() ([]CharacterRecord, error) {
	rows, err := s.db.Query(`SELECT ` + characterColumns + ` FROM characters ORDER BY team_order, name`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query characters: %w", err)
	}
	defer rows.Close()

	var out []CharacterRecord
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// SetProperty stores a free-form value, such as the current map.
func (s *Store) SetProperty(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO properties (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot set property %s: %w", key, err)
	}
	return nil
}

// GetProperty retrieves a value stored with SetProperty.
func (s *Store) GetProperty(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM properties WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("storage: property %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot query property: %w", err)
	}
	return value, nil
}

// Properties retrieves every stored property.
func (s *Store) Properties() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM properties ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query properties: %w", err)
	}
	defer rows.Close()

	props := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		props[k] = v
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return props, nil
}

// RecordBattle records the result of a fight.
// Returns the ID of the inserted record.
func (s *Store) RecordBattle(b BattleRecord) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO battles (map, enemies, outcome, duration_ms) VALUES (?, ?, ?, ?)",
		b.Map, b.Enemies, b.Outcome, b.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record battle: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Battles retrieves the most recent battles, newest first.
func (s *Store) Battles(limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, map, enemies, outcome, duration_ms, created_at
		 FROM battles
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battles: %w", err)
	}
	defer rows.Close()

	var results []BattleRecord
	for rows.Next() {
		var b BattleRecord
		var ms int64
		var createdAt any
		if err := rows.Scan(&b.ID, &b.Map, &b.Enemies, &b.Outcome, &ms, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		b.Duration = time.Duration(ms) * time.Millisecond
		b.CreatedAt = parseTime(createdAt)
		results = append(results, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Stats retrieves aggregated statistics over every recorded battle.
func (s *Store) Stats() (*BattleStats, error) {
	stats := &BattleStats{}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        MAX(created_at)
		 FROM battles`,
		OutcomeWon, OutcomeLost,
	).Scan(&stats.Count, &stats.Won, &stats.Lost, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get battle stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// Reset deletes every saved character, property and battle.
func (s *Store) Reset() error {
	_, err := s.db.Exec("DELETE FROM characters; DELETE FROM properties; DELETE FROM battles;")
	if err != nil {
		return fmt.Errorf("storage: cannot reset save: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
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
