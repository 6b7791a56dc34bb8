package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

type teamsRepo struct{ db DBTX }

func (r *teamsRepo) CreateTeam(ctx context.Context, t domain.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.CreatedBy, millis(t.CreatedAt), millis(t.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *teamsRepo) GetTeamByID(ctx context.Context, id string) (domain.Team, error) {
	var (
		t                    domain.Team
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at, updated_at FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

func (r *teamsRepo) ListTeamsForUser(ctx context.Context, userID string) ([]domain.TeamWithRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_by, t.created_at, t.updated_at, m.role,
		        (SELECT COUNT(*) FROM team_members c WHERE c.team_id = t.id)
		   FROM teams t
		   JOIN team_members m ON m.team_id = t.id
		  WHERE m.user_id = ?
		  ORDER BY t.name COLLATE NOCASE, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamWithRole
	for rows.Next() {
		var (
			tw                   domain.TeamWithRole
			role                 string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&tw.ID, &tw.Name, &tw.CreatedBy, &createdAt, &updatedAt, &role, &tw.MemberCount); err != nil {
			return nil, err
		}
		tw.Role = domain.TeamRole(role)
		tw.CreatedAt = fromMillis(createdAt)
		tw.UpdatedAt = fromMillis(updatedAt)
		out = append(out, tw)
	}
	return out, rows.Err()
}

func (r *teamsRepo) RenameTeam(ctx context.Context, id, name string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, updated_at = ? WHERE id = ?`, name, millis(time.Now()), id))
}

func (r *teamsRepo) DeleteTeam(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id))
}
