package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("session_events").
		Columns("sequence", "timestamp", "session_id", "action", "climber", "discipline", "climbs", "label").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, data.Climber,
			data.Discipline, data.Climbs, data.Label).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	sel := builder().
		Select("id", "sequence", "timestamp", "session_id", "action", "climber", "discipline", "climbs", "label").
		From(entsql.Table("session_events"))
	query, args := applyQueryOpts(sel, opts).Query()

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rs.Close()

	var out []SessionEventRecord
	for rs.Next() {
		var e SessionEventRecord
		if err := rs.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Action,
			&e.Climber, &e.Discipline, &e.Climbs, &e.Label); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rs.Err()
}
