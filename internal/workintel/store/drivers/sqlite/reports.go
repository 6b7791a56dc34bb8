package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

type reportsRepo struct{ db DBTX }

const (
	reportColumns = `id, team_id, week_start, week_end, stats, summary, generated_by, created_at, updated_at`
	dateLayout    = "2006-01-02"
)

func scanReport(row interface{ Scan(...any) error }) (domain.WeeklyReport, error) {
	var (
		r                    domain.WeeklyReport
		start, end, stats    string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&r.ID, &r.TeamID, &start, &end, &stats, &r.Summary, &r.GeneratedBy, &createdAt, &updatedAt); err != nil {
		return domain.WeeklyReport{}, err
	}

	var err error
	if r.WeekStart, err = time.Parse(dateLayout, start); err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("parse week_start: %w", err)
	}
	if r.WeekEnd, err = time.Parse(dateLayout, end); err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("parse week_end: %w", err)
	}
	if err := json.Unmarshal([]byte(stats), &r.Stats); err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("decode report stats: %w", err)
	}
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}

func (r *reportsRepo) UpsertReport(ctx context.Context, rep domain.WeeklyReport) (domain.WeeklyReport, error) {
	stats, err := json.Marshal(rep.Stats)
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("encode report stats: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO weekly_reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (team_id, week_start) DO UPDATE SET
		     week_end     = excluded.week_end,
		     stats        = excluded.stats,
		     summary      = excluded.summary,
		     generated_by = excluded.generated_by,
		     updated_at   = excluded.updated_at
		 RETURNING `+reportColumns,
		rep.ID, rep.TeamID, rep.WeekStart.UTC().Format(dateLayout), rep.WeekEnd.UTC().Format(dateLayout),
		string(stats), rep.Summary, rep.GeneratedBy, millis(rep.CreatedAt), millis(rep.UpdatedAt),
	)
	return scanReport(row)
}

func (r *reportsRepo) GetReport(ctx context.Context, teamID, id string) (domain.WeeklyReport, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM weekly_reports WHERE team_id = ? AND id = ?`, teamID, id))
	return rep, mapNotFound(err)
}

func (r *reportsRepo) ListReports(ctx context.Context, teamID string, limit int) ([]domain.WeeklyReport, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM weekly_reports WHERE team_id = ?
		  ORDER BY week_start DESC LIMIT ?`, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WeeklyReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
