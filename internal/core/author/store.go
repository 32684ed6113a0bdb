// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"

	"github.com/madr-app/madr/pkg/pagination"
)

// Repository persists authors.
//
// Lookups of missing rows return [dberr.ErrNotFound]; integrity violations
// return [*dberr.ConstraintError].
type Repository interface {
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Author, int, error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	GetByName(ctx context.Context, name string) (*Author, error)
	Create(ctx context.Context, author *Author) error
	Update(ctx context.Context, author *Author) error
	Delete(ctx context.Context, id int64) error

	// ExistingIDs returns the subset of ids that are stored.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// DeleteMany removes every id or none. It returns dberr.ErrNotFound when
	// any id vanished since the caller's existence check.
	DeleteMany(ctx context.Context, ids []int64) error
}
