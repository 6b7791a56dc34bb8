package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

type invitesRepo struct{ db DBTX }

const inviteColumns = `id, team_id, email, role, token_hash, invited_by, expires_at, accepted_by, accepted_at, created_at`

func scanInvite(row interface{ Scan(...any) error }) (domain.TeamInvite, error) {
	var (
		inv                  domain.TeamInvite
		role                 string
		expiresAt, createdAt int64
		acceptedBy           sql.NullString
		acceptedAt           sql.NullInt64
	)
	err := row.Scan(&inv.ID, &inv.TeamID, &inv.Email, &role, &inv.TokenHash, &inv.InvitedBy,
		&expiresAt, &acceptedBy, &acceptedAt, &createdAt)
	if err != nil {
		return domain.TeamInvite{}, err
	}
	inv.Role = domain.TeamRole(role)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.AcceptedBy = mapNullString(acceptedBy)
	inv.AcceptedAt = fromNullMillis(acceptedAt)
	inv.CreatedAt = fromMillis(createdAt)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.TeamInvite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_invites (`+inviteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TeamID, inv.Email, string(inv.Role), inv.TokenHash, inv.InvitedBy,
		millis(inv.ExpiresAt), nullString(inv.AcceptedBy), nullMillis(inv.AcceptedAt), millis(inv.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.TeamInvite, error) {
	inv, err := scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM team_invites WHERE token_hash = ?`, hash))
	return inv, mapNotFound(err)
}

func (r *invitesRepo) ListPendingInvites(ctx context.Context, teamID string, now time.Time) ([]domain.TeamInvite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM team_invites
		  WHERE team_id = ? AND accepted_at IS NULL AND expires_at > ?
		  ORDER BY created_at DESC, id DESC`, teamID, millis(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitesRepo) MarkInviteAccepted(ctx context.Context, inviteID, userID string, at time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE team_invites SET accepted_by = ?, accepted_at = ?
		  WHERE id = ? AND accepted_at IS NULL`, userID, millis(at), inviteID))
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, inviteID, teamID string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM team_invites WHERE id = ? AND team_id = ?`, inviteID, teamID))
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM team_invites WHERE accepted_at IS NULL AND expires_at <= ?`, millis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
