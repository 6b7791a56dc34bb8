package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

type usersRepo struct{ db DBTX }

const userColumns = `id, email, name, password_hash, github_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u                    domain.User
		login                sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &login, &createdAt, &updatedAt); err != nil {
		return domain.User{}, err
	}
	u.GitHubLogin = mapNullString(login)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, strings.ToLower(u.Email), u.Name, u.PasswordHash, nullString(u.GitHubLogin),
		millis(u.CreatedAt), millis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, strings.TrimSpace(email)))
	return u, mapNotFound(err)
}

func (r *usersRepo) UpdateName(ctx context.Context, userID, name string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, name, millis(time.Now()), userID))
}

func (r *usersRepo) UpdateGitHubLogin(ctx context.Context, userID, login string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET github_login = ?, updated_at = ? WHERE id = ?`, nullString(login), millis(time.Now()), userID))
}
