package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// climbRepo implements ClimbRepo on the climbs table.
type climbRepo struct {
	db *sql.DB
}

var climbColumns = []string{"row_id", "discipline", "grade", "timestamp", "session_id", "name", "area", "session"}

func (r *climbRepo) AppendRows(ctx context.Context, rows []climb.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		query, args := builder().Insert("climbs").
			Columns(climbColumns...).
			Values(uuid.NewString(), string(row.Discipline), row.Grade, row.Timestamp,
				row.SessionID, row.Name, row.Area, row.Session).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert climb: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *climbRepo) AllRows(ctx context.Context) ([]climb.Row, error) {
	query, args := builder().
		Select("discipline", "grade", "timestamp", "session_id", "name", "area", "session").
		From(entsql.Table("climbs")).
		OrderBy("id").
		Query()

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query climbs: %w", err)
	}
	defer rs.Close()

	var out []climb.Row
	for rs.Next() {
		var (
			row        climb.Row
			discipline string
		)
		if err := rs.Scan(&discipline, &row.Grade, &row.Timestamp, &row.SessionID,
			&row.Name, &row.Area, &row.Session); err != nil {
			return nil, fmt.Errorf("scan climb: %w", err)
		}
		row.Discipline = climb.Discipline(discipline)
		out = append(out, row)
	}
	return out, rs.Err()
}

func (r *climbRepo) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	query, args := builder().
		Select(entsql.Count("*")).
		From(entsql.Table("climbs")).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count session climbs: %w", err)
	}
	return n > 0, nil
}
