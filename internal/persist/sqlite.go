package persist

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/storage"
)

const createPlantsSQL = `
CREATE TABLE IF NOT EXISTS plants (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	species TEXT NOT NULL DEFAULT '',
	emoji TEXT NOT NULL DEFAULT '',
	last_watered TEXT NOT NULL,
	watering_frequency_days REAL NOT NULL,
	watering_streak INTEGER NOT NULL DEFAULT 0,
	health_score REAL,
	max_health_score REAL NOT NULL,
	position INTEGER NOT NULL
);`

// SQLite keeps a garden snapshot in a SQLite database file. Each Save
// replaces the previous snapshot.
type SQLite struct {
	Path string
}

// NewSQLite returns a SQLite adapter for path.
func NewSQLite(path string) *SQLite {
	return &SQLite{Path: path}
}

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createPlantsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return db, nil
}

// Load reads the snapshot. A missing file is reported as (nil, nil).
func (s *SQLite) Load(ctx context.Context) ([]model.Plant, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, failure("load", s.Path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, owner, name, species, emoji, last_watered,
		       watering_frequency_days, watering_streak, health_score, max_health_score
		FROM plants
		ORDER BY position`)
	if err != nil {
		return nil, failure("query", s.Path, err)
	}
	defer rows.Close()

	plants := []model.Plant{}
	for rows.Next() {
		var (
			p           model.Plant
			lastWatered string
			health      sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name, &p.Species, &p.Emoji, &lastWatered,
			&p.WateringFrequencyDays, &p.WateringStreak, &health, &p.MaxHealthScore); err != nil {
			return nil, failure("scan", s.Path, err)
		}

		p.LastWatered, err = time.Parse(time.RFC3339Nano, lastWatered)
		if err != nil {
			return nil, failure("parse last_watered", s.Path, err)
		}
		if health.Valid {
			p.HealthScore = health.Float64
		} else {
			p.HealthScore = math.NaN()
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, failure("read", s.Path, err)
	}
	return plants, nil
}

// Save replaces the snapshot with plants in a single transaction.
func (s *SQLite) Save(ctx context.Context, plants []model.Plant) error {
	if err := storage.EnsureDirectory(filepath.Dir(s.Path)); err != nil {
		return failure("save", s.Path, err)
	}

	db, err := s.open(ctx)
	if err != nil {
		return failure("save", s.Path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return failure("begin", s.Path, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM plants`); err != nil {
		return failure("clear", s.Path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plants(id, owner, name, species, emoji, last_watered,
		                   watering_frequency_days, watering_streak, health_score,
		                   max_health_score, position)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return failure("prepare", s.Path, err)
	}
	defer stmt.Close()

	for i, p := range plants {
		health := sql.NullFloat64{Float64: p.HealthScore, Valid: p.HasValidHealth()}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Owner, p.Name, p.Species, p.Emoji,
			p.LastWatered.UTC().Format(time.RFC3339Nano),
			p.WateringFrequencyDays, p.WateringStreak, health,
			p.EffectiveMaxHealth(), i,
		); err != nil {
			return failure(fmt.Sprintf("insert %s", p.ID), s.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return failure("commit", s.Path, err)
	}
	return nil
}
