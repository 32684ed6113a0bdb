// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madr-app/madr/internal/platform/middleware"
	requestutil "github.com/madr-app/madr/internal/platform/request"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listAuthors)
	router.Get("/{id}", handler.getAuthor)

	// Authenticated writers
	router.Group(func(writeRoute chi.Router) {
		writeRoute.Use(middleware.RequireAuth)

		writeRoute.Post("/", handler.createAuthor)
		writeRoute.Post("/delete/batch", handler.deleteAuthors)
		writeRoute.Patch("/{id}", handler.updateAuthor)
		writeRoute.Delete("/{id}", handler.deleteAuthor)
	})
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	page, err := pagination.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{Name: request.URL.Query().Get("name")}

	result, err := handler.service.ListAuthors(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.GetAuthor(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAuthor(request.Context(), authorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) deleteAuthors(writer http.ResponseWriter, request *http.Request) {
	var input BatchDeleteInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAuthors(request.Context(), input.IDs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgBatchDeleted)
}
