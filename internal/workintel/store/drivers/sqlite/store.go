package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db     *sql.DB
	sealer store.CredentialSealer
	dsn    string
}

type Option func(*Store)

// WithCredentialSealer sets how integration credentials are encrypted at
// rest. Without it a random per-process key is used.
func WithCredentialSealer(s store.CredentialSealer) Option {
	return func(st *Store) { st.sealer = s }
}

// NewStore opens dsn, which is a file path or ":memory:". Every connection
// gets foreign keys on and a busy timeout.
func NewStore(dsn string, opts ...Option) (*Store, error) {
	full, memory := buildDSN(dsn)

	db, err := sql.Open("sqlite", full)
	if err != nil {
		return nil, err
	}
	if memory {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, dsn: dsn}
	for _, opt := range opts {
		opt(s)
	}
	if s.sealer == nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("generate credential key: %w", err)
		}
		box, err := cryptox.NewSecretBox(key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		s.sealer = box
	}
	return s, nil
}

func buildDSN(dsn string) (string, bool) {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if dsn == "" || dsn == ":memory:" {
		return "file::memory:?" + pragmas, true
	}
	if strings.Contains(dsn, "_pragma=") {
		return dsn, strings.Contains(dsn, ":memory:")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + pragmas + "&_pragma=journal_mode(WAL)", false
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// DB exposes the handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.sealer), nil
}

// WithTx runs fn in a transaction, rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users       { return &usersRepo{db: s.db} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{db: s.db} }
func (s *Store) Teams() store.Teams       { return &teamsRepo{db: s.db} }
func (s *Store) Members() store.Members   { return &membersRepo{db: s.db} }
func (s *Store) Invites() store.Invites   { return &invitesRepo{db: s.db} }
func (s *Store) Reports() store.Reports   { return &reportsRepo{db: s.db} }
func (s *Store) TeamIntegrations() store.TeamIntegrations {
	return &teamIntegrationsRepo{db: s.db, sealer: s.sealer}
}
func (s *Store) UserIntegrations() store.UserIntegrations {
	return &userIntegrationsRepo{db: s.db, sealer: s.sealer}
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns UNIQUE / PRIMARY KEY violations into ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		case sqlite3.SQLITE_CONSTRAINT:
			if strings.Contains(se.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
		}
	}
	return err
}

// requireAffected reports ErrNotFound when an UPDATE/DELETE matched nothing.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func millis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: millis(*t), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
