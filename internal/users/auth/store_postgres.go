// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madr-app/madr/internal/platform/database/schema"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/pkg/pagination"
	"github.com/madr-app/madr/pkg/pointer"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsSuperuser,
		&user.IsActive,
		&user.IsVerified,
		&user.GoogleSub,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, column string, value any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.UserAccount.Table, column)

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, "find_user_by_id", schema.UserAccount.ID, id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_user_by_email", schema.UserAccount.Email, email)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "find_user_by_username", schema.UserAccount.Username, username)
}

func (repository *PostgresUserRepository) FindByGoogleSub(context context.Context, sub string) (*User, error) {
	return repository.findOne(context, "find_user_by_google_sub", schema.UserAccount.GoogleSub, sub)
}

/*
FindConflicting looks up a row that already owns the username or the email.

Description: Empty values are bound as NULL so they never match. The username
match is ordered first so callers report it before the email.
*/
func (repository *PostgresUserRepository) FindConflicting(context context.Context, username, email string, excludeID int64) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE (%s = $1 OR %s = $2) AND %s <> $3
		ORDER BY (%s = $1) DESC, %s ASC
		LIMIT 1`,
		userColumns, schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.ID,
		schema.UserAccount.Username, schema.UserAccount.ID,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, pointer.NonZero(username), pointer.NonZero(email), excludeID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_conflicting_user")
	}
	return user, nil
}

func (repository *PostgresUserRepository) List(context context.Context, page pagination.Params) ([]*User, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.UserAccount.Table)
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	rows, err := repository.pool.Query(context, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0, page.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}

/*
Create persists a new user record into the users table.

Description: The database assigns id and created_at; both are written back
into user.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.IsSuperuser,
		schema.UserAccount.IsActive, schema.UserAccount.IsVerified, schema.UserAccount.GoogleSub,
		schema.UserAccount.ID, schema.UserAccount.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsSuperuser,
		user.IsActive,
		user.IsVerified,
		user.GoogleSub,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}
	return nil
}

func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.IsActive, schema.UserAccount.IsVerified,
		schema.UserAccount.GoogleSub, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.IsVerified,
		user.GoogleSub,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	return nil
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)
	return repository.execOne(context, "update_user_password", query, userID, newHash)
}

func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsVerified, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)
	return repository.execOne(context, "mark_user_verified", query, userID)
}

func (repository *PostgresUserRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)
	return repository.execOne(context, "delete_user", query, id)
}

// execOne runs a statement that must touch exactly one row.
func (repository *PostgresUserRepository) execOne(context context.Context, action, query string, args ...any) error {
	cmd, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
