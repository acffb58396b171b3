package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nlpd/pkg/types"
)

// SaveAnalysis stores a report, assigning its ID and CreatedAt when unset.
func (s *Store) SaveAnalysis(ctx context.Context, r *types.Report) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, query, video_id, report_json, created_at) VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET report_json = excluded.report_json`,
		r.ID, r.Query, r.VideoID, string(body), r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis fetches one report by ID.
func (s *Store) GetAnalysis(ctx context.Context, id string) (types.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM analyses WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Report{}, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Report{}, fmt.Errorf("query analysis: %w", err)
	}
	var r types.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return types.Report{}, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	return r, nil
}

// ListAnalyses returns the newest reports first, optionally for one query.
func (s *Store) ListAnalyses(ctx context.Context, query string, limit int) ([]types.Report, error) {
	q := `SELECT report_json FROM analyses`
	args := []any{}
	if query != "" {
		q += ` WHERE query = ?`
		args = append(args, query)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limitOrDefault(limit))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := []types.Report{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		var r types.Report
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
