// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
	"strings"

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

// joinedSelect reads books as "b" joined with their author as "a".
var joinedSelect = fmt.Sprintf(`
	SELECT b.%s, b.%s, b.%s, b.%s, a.%s, b.%s, b.%s
	FROM %%s b
	JOIN %s a ON a.%s = b.%s`,
	schema.Book.ID, schema.Book.Title, schema.Book.Year, schema.Book.AuthorID,
	schema.Author.Name, schema.Book.CreatedAt, schema.Book.UpdatedAt,
	schema.Author.Table, schema.Author.ID, schema.Book.AuthorID,
)

func fromBooks() string {
	return fmt.Sprintf(joinedSelect, schema.Book.Table)
}

func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	if err := row.Scan(&b.ID, &b.Title, &b.Year, &b.AuthorID, &b.AuthorName, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (repository *PostgresRepository) List(context context.Context, f Filter, page pagination.Params) ([]*Book, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	if f.Title != "" {
		args = append(args, normalize.LikePattern(f.Title))
		conditions = append(conditions, fmt.Sprintf(`b.%s ILIKE $%d ESCAPE '\'`, schema.Book.Title, len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conditions = append(conditions, fmt.Sprintf(`b.%s = $%d`, schema.Book.Year, len(args)))
	}
	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s b WHERE %s`, schema.Book.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY b.%s ASC LIMIT $%d OFFSET $%d`,
		fromBooks(), where, schema.Book.ID, len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := make([]*Book, 0, page.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}

	return books, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`%s WHERE b.%s = $1`, fromBooks(), schema.Book.ID)

	b, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return b, nil
}

func (repository *PostgresRepository) GetByTitle(context context.Context, title string) (*Book, error) {
	query := fmt.Sprintf(`%s WHERE b.%s = $1`, fromBooks(), schema.Book.Title)

	b, err := scanBook(repository.db.QueryRow(context, query, title))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_by_title")
	}
	return b, nil
}

// Create inserts the row and reads it back joined with the author in one statement.
func (repository *PostgresRepository) Create(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING *
		)%s`,
		schema.Book.Table, schema.Book.Title, schema.Book.Year, schema.Book.AuthorID,
		fmt.Sprintf(joinedSelect, "inserted"),
	)

	created, err := scanBook(repository.db.QueryRow(context, query, b.Title, b.Year, b.AuthorID))
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}
	*b = *created
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW() WHERE %s = $1 RETURNING *
		)%s`,
		schema.Book.Table, schema.Book.Title, schema.Book.Year, schema.Book.AuthorID,
		schema.Book.UpdatedAt, schema.Book.ID,
		fmt.Sprintf(joinedSelect, "updated"),
	)

	updated, err := scanBook(repository.db.QueryRow(context, query, b.ID, b.Title, b.Year, b.AuthorID))
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}
	*b = *updated
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Book.Table, schema.Book.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ExistingIDs(context context.Context, ids []int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`, schema.Book.ID, schema.Book.Table, schema.Book.ID)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "existing_book_ids")
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, dberr.Wrap(err, "existing_book_ids")
	}
	return found, nil
}

func (repository *PostgresRepository) DeleteMany(context context.Context, ids []int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`, schema.Book.Table, schema.Book.ID)

	return pgx.BeginFunc(context, repository.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(context, query, ids)
		if err != nil {
			return dberr.Wrap(err, "delete_books")
		}
		if cmd.RowsAffected() != int64(len(ids)) {
			return dberr.ErrNotFound
		}
		return nil
	})
}
