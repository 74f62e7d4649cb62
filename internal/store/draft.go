package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// draftRepo implements DraftRepo on the drafts table.
type draftRepo struct {
	db *sql.DB
}

func (r *draftRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table("drafts")).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get draft %q: %w", key, err)
	}
	return value, true, nil
}

func (r *draftRepo) Set(ctx context.Context, key string, value []byte) error {
	query, args := builder().Insert("drafts").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set draft %q: %w", key, err)
	}
	return nil
}

func (r *draftRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete("drafts").
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete draft %q: %w", key, err)
	}
	return nil
}
