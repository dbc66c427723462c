// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"eventdesk/internal/blob"
	"eventdesk/internal/middleware"
	"eventdesk/internal/model"
	"eventdesk/internal/render"
	"eventdesk/internal/service"
)

// FrontendHandler serves the public event listing.
type FrontendHandler struct {
	events   *service.EventService
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, blobs blob.Store, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		events:   service.NewEventService(db, blobs),
		renderer: renderer,
	}
}

// eventsPageData is the template payload for the public listing.
type eventsPageData struct {
	Events     []model.Event
	Filter     service.Filter
	Categories []string
	LoadFailed bool
	IsAdmin    bool
}

// Events shows the public event listing with search, category filter
// and sort controls.
func (h *FrontendHandler) Events(w http.ResponseWriter, r *http.Request) {
	filter := service.NormalizeFilter(service.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
	})

	data := eventsPageData{
		Filter:     filter,
		Categories: model.ValidCategories,
	}

	user := middleware.GetUser(r)
	data.IsAdmin = user != nil && user.IsAdmin()

	events, err := h.events.List(r.Context())
	if err != nil {
		// Show the page with an error state rather than a bare 500.
		slog.Error("list events error", "error", err)
		data.LoadFailed = true
	} else {
		data.Events = filter.Apply(events)
	}

	renderErr := h.renderer.Render(w, r, "frontend/events", render.TemplateData{
		Title: "Events",
		Data:  data,
	})
	if renderErr != nil {
		logAndInternalError(w, "render error", "error", renderErr)
	}
}
