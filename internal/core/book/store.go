// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/madr-app/madr/pkg/pagination"
)

// Repository persists books. Reads return rows joined with their author's name.
type Repository interface {
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Book, int, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	GetByTitle(ctx context.Context, title string) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id int64) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	DeleteMany(ctx context.Context, ids []int64) error
}

// AuthorChecker confirms a referenced author exists before a write.
type AuthorChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
