package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nlpd/pkg/types"
)

// LogRequest records one classifier call. Missing ID and CreatedAt are
// filled in; the stored record is returned.
func (s *Store) LogRequest(ctx context.Context, rec types.RequestRecord) (types.RequestRecord, error) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, kind, inputs, duration_ms, outcome, error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.Inputs, rec.DurationMS, rec.Outcome, nullableString(rec.Error),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return rec, fmt.Errorf("insert request: %w", err)
	}
	return rec, nil
}

// RecentRequests returns the newest requests first, optionally limited to
// one kind.
func (s *Store) RecentRequests(ctx context.Context, kind string, limit int) ([]types.RequestRecord, error) {
	q := `SELECT id, kind, inputs, duration_ms, outcome, error, created_at FROM requests`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limitOrDefault(limit))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	out := []types.RequestRecord{}
	for rows.Next() {
		var (
			rec     types.RequestRecord
			errText sql.NullString
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Inputs, &rec.DurationMS, &rec.Outcome, &errText, &created); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		rec.Error = errText.String
		rec.CreatedAt = parseTime(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
