package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
)

type teamIntegrationsRepo struct {
	db     DBTX
	sealer store.CredentialSealer
}

const teamIntegrationColumns = `id, team_id, provider, auth_method, credentials, config, connected_by, created_at, updated_at`

func (r *teamIntegrationsRepo) scan(row interface{ Scan(...any) error }) (domain.TeamIntegration, error) {
	var (
		ti                   domain.TeamIntegration
		provider, method     string
		sealed, cfg          string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&ti.ID, &ti.TeamID, &provider, &method, &sealed, &cfg, &ti.ConnectedBy, &createdAt, &updatedAt); err != nil {
		return domain.TeamIntegration{}, err
	}
	creds, err := store.OpenCredentials(r.sealer, sealed)
	if err != nil {
		return domain.TeamIntegration{}, err
	}
	if err := json.Unmarshal([]byte(cfg), &ti.Config); err != nil {
		return domain.TeamIntegration{}, fmt.Errorf("decode integration config: %w", err)
	}
	ti.Provider = domain.Provider(provider)
	ti.AuthMethod = domain.AuthMethod(method)
	ti.Credentials = creds
	ti.CreatedAt = fromMillis(createdAt)
	ti.UpdatedAt = fromMillis(updatedAt)
	return ti, nil
}

func (r *teamIntegrationsRepo) UpsertTeamIntegration(ctx context.Context, ti domain.TeamIntegration) error {
	sealed, err := store.SealCredentials(r.sealer, ti.Credentials)
	if err != nil {
		return err
	}
	cfg, err := json.Marshal(ti.Config)
	if err != nil {
		return fmt.Errorf("encode integration config: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO team_integrations (`+teamIntegrationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (team_id, provider) DO UPDATE SET
		     auth_method  = excluded.auth_method,
		     credentials  = excluded.credentials,
		     config       = excluded.config,
		     connected_by = excluded.connected_by,
		     updated_at   = excluded.updated_at`,
		ti.ID, ti.TeamID, string(ti.Provider), string(ti.AuthMethod), sealed, string(cfg), ti.ConnectedBy,
		millis(ti.CreatedAt), millis(ti.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *teamIntegrationsRepo) GetTeamIntegration(ctx context.Context, teamID string, p domain.Provider) (domain.TeamIntegration, error) {
	ti, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+teamIntegrationColumns+` FROM team_integrations WHERE team_id = ? AND provider = ?`,
		teamID, string(p)))
	return ti, mapNotFound(err)
}

func (r *teamIntegrationsRepo) ListTeamIntegrations(ctx context.Context, teamID string) ([]domain.TeamIntegration, error) {
	return r.list(ctx,
		`SELECT `+teamIntegrationColumns+` FROM team_integrations WHERE team_id = ? ORDER BY provider`, teamID)
}

func (r *teamIntegrationsRepo) ListTeamIntegrationsForUser(ctx context.Context, userID string, p domain.Provider) ([]domain.TeamIntegration, error) {
	return r.list(ctx,
		`SELECT i.id, i.team_id, i.provider, i.auth_method, i.credentials, i.config, i.connected_by, i.created_at, i.updated_at
		   FROM team_integrations i
		   JOIN team_members m ON m.team_id = i.team_id
		  WHERE m.user_id = ? AND i.provider = ?
		  ORDER BY i.created_at, i.id`, userID, string(p))
}

func (r *teamIntegrationsRepo) list(ctx context.Context, query string, args ...any) ([]domain.TeamIntegration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamIntegration
	for rows.Next() {
		ti, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ti)
	}
	return out, rows.Err()
}

func (r *teamIntegrationsRepo) UpdateTeamCredentials(ctx context.Context, id string, c domain.Credentials) error {
	sealed, err := store.SealCredentials(r.sealer, c)
	if err != nil {
		return err
	}
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE team_integrations SET credentials = ?, updated_at = ? WHERE id = ?`,
		sealed, millis(time.Now()), id))
}

func (r *teamIntegrationsRepo) UpdateTeamConfig(ctx context.Context, teamID string, p domain.Provider, cfg domain.IntegrationConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode integration config: %w", err)
	}
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE team_integrations SET config = ?, updated_at = ? WHERE team_id = ? AND provider = ?`,
		string(raw), millis(time.Now()), teamID, string(p)))
}

func (r *teamIntegrationsRepo) DeleteTeamIntegration(ctx context.Context, teamID string, p domain.Provider) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM team_integrations WHERE team_id = ? AND provider = ?`, teamID, string(p)))
}

type userIntegrationsRepo struct {
	db     DBTX
	sealer store.CredentialSealer
}

const userIntegrationColumns = `id, user_id, provider, credentials, account_label, created_at, updated_at`

func (r *userIntegrationsRepo) scan(row interface{ Scan(...any) error }) (domain.UserIntegration, error) {
	var (
		ui                   domain.UserIntegration
		provider, sealed     string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&ui.ID, &ui.UserID, &provider, &sealed, &ui.AccountLabel, &createdAt, &updatedAt); err != nil {
		return domain.UserIntegration{}, err
	}
	creds, err := store.OpenCredentials(r.sealer, sealed)
	if err != nil {
		return domain.UserIntegration{}, err
	}
	ui.Provider = domain.Provider(provider)
	ui.Credentials = creds
	ui.CreatedAt = fromMillis(createdAt)
	ui.UpdatedAt = fromMillis(updatedAt)
	return ui, nil
}

func (r *userIntegrationsRepo) UpsertUserIntegration(ctx context.Context, ui domain.UserIntegration) error {
	sealed, err := store.SealCredentials(r.sealer, ui.Credentials)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_integrations (`+userIntegrationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, provider) DO UPDATE SET
		     credentials   = excluded.credentials,
		     account_label = excluded.account_label,
		     updated_at    = excluded.updated_at`,
		ui.ID, ui.UserID, string(ui.Provider), sealed, ui.AccountLabel, millis(ui.CreatedAt), millis(ui.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *userIntegrationsRepo) GetUserIntegration(ctx context.Context, userID string, p domain.Provider) (domain.UserIntegration, error) {
	ui, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+userIntegrationColumns+` FROM user_integrations WHERE user_id = ? AND provider = ?`,
		userID, string(p)))
	return ui, mapNotFound(err)
}

func (r *userIntegrationsRepo) ListUserIntegrations(ctx context.Context, userID string) ([]domain.UserIntegration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userIntegrationColumns+` FROM user_integrations WHERE user_id = ? ORDER BY provider`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserIntegration
	for rows.Next() {
		ui, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ui)
	}
	return out, rows.Err()
}

func (r *userIntegrationsRepo) UpdateUserCredentials(ctx context.Context, id string, c domain.Credentials) error {
	sealed, err := store.SealCredentials(r.sealer, c)
	if err != nil {
		return err
	}
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE user_integrations SET credentials = ?, updated_at = ? WHERE id = ?`,
		sealed, millis(time.Now()), id))
}

func (r *userIntegrationsRepo) DeleteUserIntegration(ctx context.Context, userID string, p domain.Provider) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM user_integrations WHERE user_id = ? AND provider = ?`, userID, string(p)))
}
