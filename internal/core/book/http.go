// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madr-app/madr/internal/platform/middleware"
	requestutil "github.com/madr-app/madr/internal/platform/request"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/pkg/pagination"
)

// Handler exposes the book endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new book [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the book endpoints. Reads are public, writes need a session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	router.Group(func(writeRoute chi.Router) {
		writeRoute.Use(middleware.RequireAuth)

		writeRoute.Post("/", handler.createBook)
		writeRoute.Post("/delete/batch", handler.deleteBooks)
		writeRoute.Patch("/{id}", handler.updateBook)
		writeRoute.Delete("/{id}", handler.deleteBook)
	})
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	page, err := pagination.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	year, err := requestutil.OptionalInt(request, FieldYear)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	title := query.Get("title")
	if title == "" {
		title = query.Get("name")
	}

	result, err := handler.service.ListBooks(request.Context(), Filter{Title: title, Year: year}, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.CreateBook(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, book)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateBook(request.Context(), bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) deleteBooks(writer http.ResponseWriter, request *http.Request) {
	var input BatchDeleteInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBooks(request.Context(), input.IDs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgBatchDeleted)
}
