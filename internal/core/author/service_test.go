// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madr-app/madr/internal/core/author"
	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/database/schema"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/pkg/pagination"
)

func newService() (*author.Service, *memRepository) {
	repo := newMemRepository()
	return author.NewService(repo, discardLogger()), repo
}

func seedAuthors(t *testing.T, service *author.Service, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: fmt.Sprintf("author %02d", i)})
		require.NoError(t, err)
	}
}

/*
TestCreateAuthor_Normalizes stores the canonical name.
*/
func TestCreateAuthor_Normalizes(t *testing.T) {
	service, _ := newService()

	created, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: " A   NAmE to correct "})
	require.NoError(t, err)
	assert.Equal(t, "a name to correct", created.Name)
	assert.Positive(t, created.ID)
}

/*
TestCreateAuthor_Rejects covers validation and duplicate names.
*/
func TestCreateAuthor_Rejects(t *testing.T) {
	service, _ := newService()
	_, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: "clarice lispector"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		input      string
		wantStatus int
		wantDetail string
	}{
		{"empty", "", http.StatusBadRequest, "Validation failed"},
		{"blank", "   ", http.StatusBadRequest, "Validation failed"},
		{"duplicate_after_normalization", "  Clarice   LISPECTOR", http.StatusBadRequest, "clarice lispector already in MADR."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: tt.input})
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
			assert.Equal(t, tt.wantDetail, ae.Message)
		})
	}
}

/*
TestGetAuthor_NotFound returns the domain 404.
*/
func TestGetAuthor_NotFound(t *testing.T) {
	service, _ := newService()

	_, err := service.GetAuthor(context.Background(), 99)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	assert.Equal(t, author.MsgNotFound, ae.Message)
}

/*
TestUpdateAuthor covers partial updates and conflicts with other rows.
*/
func TestUpdateAuthor(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	first, err := service.CreateAuthor(ctx, author.CreateInput{Name: "first"})
	require.NoError(t, err)
	_, err = service.CreateAuthor(ctx, author.CreateInput{Name: "second"})
	require.NoError(t, err)

	t.Run("no_fields_is_noop", func(t *testing.T) {
		updated, err := service.UpdateAuthor(ctx, first.ID, author.UpdateInput{})
		require.NoError(t, err)
		assert.Equal(t, "first", updated.Name)
	})

	t.Run("rename_normalizes", func(t *testing.T) {
		name := "  FIRST   Renamed "
		updated, err := service.UpdateAuthor(ctx, first.ID, author.UpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "first renamed", updated.Name)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("same_name_on_self_is_allowed", func(t *testing.T) {
		name := "first renamed"
		_, err := service.UpdateAuthor(ctx, first.ID, author.UpdateInput{Name: &name})
		assert.NoError(t, err)
	})

	t.Run("conflict_with_other", func(t *testing.T) {
		name := "Second"
		_, err := service.UpdateAuthor(ctx, first.ID, author.UpdateInput{Name: &name})
		assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
		assert.Equal(t, "second already in MADR.", apperr.As(err).Message)
	})

	t.Run("missing", func(t *testing.T) {
		name := "ghost"
		_, err := service.UpdateAuthor(ctx, 404, author.UpdateInput{Name: &name})
		assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
	})
}

/*
TestAuthorWrites_RacedConstraint maps a unique violation raised by the store into the conflict message.
*/
func TestAuthorWrites_RacedConstraint(t *testing.T) {
	ctx := context.Background()
	mem := newMemRepository()
	mem.rows[1] = &author.Author{ID: 1, Name: "first"}
	repo := &racingRepository{
		memRepository: mem,
		writeErr:      &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: schema.Author.UniqueName},
	}
	service := author.NewService(repo, discardLogger())

	t.Run("create", func(t *testing.T) {
		_, err := service.CreateAuthor(ctx, author.CreateInput{Name: "  Machado de ASSIS "})
		assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
		assert.Equal(t, "machado de assis already in MADR.", apperr.As(err).Message)
	})

	t.Run("update", func(t *testing.T) {
		name := "Machado de Assis"
		_, err := service.UpdateAuthor(ctx, 1, author.UpdateInput{Name: &name})
		assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
		assert.Equal(t, "machado de assis already in MADR.", apperr.As(err).Message)
	})

	t.Run("other_errors_pass_through", func(t *testing.T) {
		repo.writeErr = errors.New("connection reset")
		_, err := service.CreateAuthor(ctx, author.CreateInput{Name: "jorge amado"})
		assert.EqualError(t, err, "connection reset")
	})
}

/*
TestDeleteAuthors_AllOrNothing validates every id before deleting any.
*/
func TestDeleteAuthors_AllOrNothing(t *testing.T) {
	ids := func(from, to int64) []int64 {
		out := make([]int64, 0, to-from+1)
		for id := from; id <= to; id++ {
			out = append(out, id)
		}
		return out
	}

	t.Run("missing_ids_reject_whole_batch", func(t *testing.T) {
		service, repo := newService()
		seedAuthors(t, service, 20)

		err := service.DeleteAuthors(context.Background(), ids(1, 24))
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
		assert.Equal(t, apperr.MsgBatchIDsNotFound, ae.Message)
		assert.Equal(t, 20, repo.count())
	})

	t.Run("all_present_empties_collection", func(t *testing.T) {
		service, repo := newService()
		seedAuthors(t, service, 20)

		require.NoError(t, service.DeleteAuthors(context.Background(), ids(1, 20)))
		assert.Equal(t, 0, repo.count())
	})

	t.Run("duplicates_are_collapsed", func(t *testing.T) {
		service, repo := newService()
		seedAuthors(t, service, 2)

		require.NoError(t, service.DeleteAuthors(context.Background(), []int64{1, 1, 2}))
		assert.Equal(t, 0, repo.count())
	})

	t.Run("empty_batch", func(t *testing.T) {
		service, _ := newService()
		err := service.DeleteAuthors(context.Background(), nil)
		assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
	})
}

/*
TestListAuthors_TotalIgnoresWindow reports the filtered count independent of limit/offset.
*/
func TestListAuthors_TotalIgnoresWindow(t *testing.T) {
	service, _ := newService()
	seedAuthors(t, service, 25)
	_, err := service.CreateAuthor(context.Background(), author.CreateInput{Name: "someone else"})
	require.NoError(t, err)

	result, err := service.ListAuthors(context.Background(), author.Filter{Name: "AUTHOR"}, pagination.Params{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Len(t, result.Authors, 10)
	assert.Equal(t, 25, result.TotalResults)
	assert.Equal(t, "author 11", result.Authors[0].Name)

	unfiltered, err := service.ListAuthors(context.Background(), author.Filter{}, pagination.Default())
	require.NoError(t, err)
	assert.Len(t, unfiltered.Authors, 20)
	assert.Equal(t, 26, unfiltered.TotalResults)
}
