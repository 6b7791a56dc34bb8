package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/workintel/internal/workintel/store"
)

type txStore struct {
	tx     *sql.Tx
	sealer store.CredentialSealer
}

func newTx(tx *sql.Tx, sealer store.CredentialSealer) *txStore {
	return &txStore{tx: tx, sealer: sealer}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users       { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions { return &sessionsRepo{db: t.tx} }
func (t *txStore) Teams() store.Teams       { return &teamsRepo{db: t.tx} }
func (t *txStore) Members() store.Members   { return &membersRepo{db: t.tx} }
func (t *txStore) Invites() store.Invites   { return &invitesRepo{db: t.tx} }
func (t *txStore) Reports() store.Reports   { return &reportsRepo{db: t.tx} }
func (t *txStore) TeamIntegrations() store.TeamIntegrations {
	return &teamIntegrationsRepo{db: t.tx, sealer: t.sealer}
}
func (t *txStore) UserIntegrations() store.UserIntegrations {
	return &userIntegrationsRepo{db: t.tx, sealer: t.sealer}
}
