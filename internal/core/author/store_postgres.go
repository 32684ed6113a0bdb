// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madr-app/madr/internal/platform/database/schema"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/pkg/normalize"
	"github.com/madr-app/madr/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = fmt.Sprintf(`%s, %s, %s, %s`,
	schema.Author.ID, schema.Author.Name, schema.Author.CreatedAt, schema.Author.UpdatedAt,
)

func scanAuthor(row pgx.Row) (*Author, error) {
	a := &Author{}
	if err := row.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (repository *PostgresRepository) List(context context.Context, f Filter, page pagination.Params) ([]*Author, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Name != "" {
		args = append(args, normalize.LikePattern(f.Name))
		where = fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, schema.Author.Name, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, schema.Author.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s ASC LIMIT $%s OFFSET $%s`,
		selectColumns, schema.Author.Table, where, schema.Author.ID,
		strconv.Itoa(len(args)+1), strconv.Itoa(len(args)+2),
	)
	args = append(args, page.Limit, page.Offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0, page.Limit)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}

	return authors, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Author.Table, schema.Author.ID)

	a, err := scanAuthor(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *PostgresRepository) GetByName(context context.Context, name string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Author.Table, schema.Author.Name)

	a, err := scanAuthor(repository.db.QueryRow(context, query, name))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author_by_name")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(context context.Context, a *Author) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s, %s`,
		schema.Author.Table, schema.Author.Name, schema.Author.ID, schema.Author.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, a.Name).Scan(&a.ID, &a.CreatedAt)
	return dberr.Wrap(err, "create_author")
}

func (repository *PostgresRepository) Update(context context.Context, a *Author) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s, %s`,
		schema.Author.Table, schema.Author.Name, schema.Author.UpdatedAt, schema.Author.ID,
		schema.Author.CreatedAt, schema.Author.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, a.ID, a.Name).Scan(&a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "update_author")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Author.Table, schema.Author.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ExistingIDs(context context.Context, ids []int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`, schema.Author.ID, schema.Author.Table, schema.Author.ID)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "existing_author_ids")
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, dberr.Wrap(err, "existing_author_ids")
	}
	return found, nil
}

func (repository *PostgresRepository) DeleteMany(context context.Context, ids []int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`, schema.Author.Table, schema.Author.ID)

	return pgx.BeginFunc(context, repository.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(context, query, ids)
		if err != nil {
			return dberr.Wrap(err, "delete_authors")
		}

		// A concurrent delete shrank the set: roll back to keep all-or-nothing.
		if cmd.RowsAffected() != int64(len(ids)) {
			return dberr.ErrNotFound
		}
		return nil
	})
}
