// Package pgstore keeps the shared climb table in PostgreSQL so several
// climbers can log to one database.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

const createClimbs = `CREATE TABLE IF NOT EXISTS climbs (
	id         BIGSERIAL PRIMARY KEY,
	row_id     UUID NOT NULL UNIQUE,
	discipline TEXT NOT NULL,
	grade      TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	area       TEXT NOT NULL DEFAULT '',
	session    TEXT NOT NULL DEFAULT ''
)`

const createSessionIndex = `CREATE INDEX IF NOT EXISTS climbs_session_id ON climbs (session_id)`

// Store is a ClimbRepo backed by a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// Open connects to dsn and creates the climbs table if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	s := &Store{db: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range []string{createClimbs, createSessionIndex} {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}

// AppendRows inserts rows in one transaction.
func (s *Store) AppendRows(ctx context.Context, rows []climb.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO climbs (row_id, discipline, grade, timestamp, session_id, name, area, session)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), string(r.Discipline), r.Grade, r.Timestamp, r.SessionID, r.Name, r.Area, r.Session,
		)
		if err != nil {
			return fmt.Errorf("insert climb: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// AllRows returns every climb in insertion order.
func (s *Store) AllRows(ctx context.Context) ([]climb.Row, error) {
	rows, err := s.db.Query(ctx,
		`SELECT discipline, grade, timestamp, session_id, name, area, session FROM climbs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []climb.Row
	for rows.Next() {
		var (
			r          climb.Row
			discipline string
		)
		if err := rows.Scan(&discipline, &r.Grade, &r.Timestamp, &r.SessionID, &r.Name, &r.Area, &r.Session); err != nil {
			return nil, err
		}
		r.Discipline = climb.Discipline(discipline)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SessionExists reports whether any climb carries sessionID.
func (s *Store) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM climbs WHERE session_id=$1)", sessionID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return exists, err
}
