package state

import (
	"context"
	"time"
)

func (s *MySQLStore) InsertCycle(ctx context.Context, rec CycleRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO cycles (
			cycle_id, status,
			checked, fetch_failures, transitions, notified, send_failures,
			started_at, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CycleID, rec.Status,
		rec.Checked, rec.FetchFailures, rec.Transitions, rec.Notified, rec.SendFailures,
		rec.StartedAt.UTC(), rec.Duration.Milliseconds(),
	)
	return err
}

func (s *MySQLStore) ListCycles(ctx context.Context, limit int) ([]CycleRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT cycle_id, status,
		        checked, fetch_failures, transitions, notified, send_failures,
		        started_at, duration_ms
		 FROM cycles
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CycleRecord, 0, limit)
	for rows.Next() {
		var rec CycleRecord
		var started time.Time
		var durationMS int64
		if err := rows.Scan(
			&rec.CycleID, &rec.Status,
			&rec.Checked, &rec.FetchFailures, &rec.Transitions, &rec.Notified, &rec.SendFailures,
			&started, &durationMS,
		); err != nil {
			return nil, err
		}
		rec.StartedAt = started.UTC()
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
