package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

type membersRepo struct{ db DBTX }

func (r *membersRepo) AddMember(ctx context.Context, m domain.TeamMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`,
		m.TeamID, m.UserID, string(m.Role), millis(m.JoinedAt),
	)
	return mapConstraint(err)
}

func (r *membersRepo) GetMember(ctx context.Context, teamID, userID string) (domain.TeamMember, error) {
	var (
		m        domain.TeamMember
		role     string
		joinedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT team_id, user_id, role, joined_at FROM team_members WHERE team_id = ? AND user_id = ?`,
		teamID, userID,
	).Scan(&m.TeamID, &m.UserID, &role, &joinedAt)
	if err != nil {
		return domain.TeamMember{}, mapNotFound(err)
	}
	m.Role = domain.TeamRole(role)
	m.JoinedAt = fromMillis(joinedAt)
	return m, nil
}

func (r *membersRepo) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMemberView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.team_id, m.user_id, m.role, m.joined_at, u.email, u.name, u.github_login
		   FROM team_members m
		   JOIN users u ON u.id = m.user_id
		  WHERE m.team_id = ?
		  ORDER BY m.role = 'admin' DESC, u.name COLLATE NOCASE, u.email`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamMemberView
	for rows.Next() {
		var (
			v        domain.TeamMemberView
			role     string
			joinedAt int64
			login    sql.NullString
		)
		if err := rows.Scan(&v.TeamID, &v.UserID, &role, &joinedAt, &v.Email, &v.Name, &login); err != nil {
			return nil, err
		}
		v.Role = domain.TeamRole(role)
		v.JoinedAt = fromMillis(joinedAt)
		v.GitHubLogin = mapNullString(login)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *membersRepo) UpdateRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE team_members SET role = ? WHERE team_id = ? AND user_id = ?`, string(role), teamID, userID))
}

func (r *membersRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID))
}

func (r *membersRepo) CountAdmins(ctx context.Context, teamID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE team_id = ? AND role = 'admin'`, teamID).Scan(&n)
	return n, err
}
