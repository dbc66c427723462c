// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"eventdesk/internal/blob"
	"eventdesk/internal/middleware"
	"eventdesk/internal/model"
	"eventdesk/internal/render"
	"eventdesk/internal/service"
)

// EventsHandler handles the admin event management pages.
type EventsHandler struct {
	events         *service.EventService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, blobs blob.Store, renderer *render.Renderer, sm *scs.SessionManager) *EventsHandler {
	return &EventsHandler{
		events:         service.NewEventService(db, blobs),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// eventListData is the template payload for the admin event list.
type eventListData struct {
	Events []model.Event
}

// eventFormData is the template payload for the create and edit forms.
// Categories holds the raw category values; templates resolve labels
// through the categoryLabel func.
type eventFormData struct {
	Event      model.Event
	Categories []string
	IsEdit     bool
}

// List shows all events, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		logAndInternalError(w, "list events error", "error", err)
		return
	}

	err = h.renderer.Render(w, r, "admin/events_list", render.TemplateData{
		Title: "Manage Events",
		Data:  eventListData{Events: events},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// NewForm renders the event creation form.
func (h *EventsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "New Event",
		Data: eventFormData{
			Categories: model.ValidCategories,
		},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Create handles the event creation form submission.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, upload, ok := h.parseEventForm(w, r, redirectAdminEventsNew)
	if !ok {
		return
	}

	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	event, err := h.events.Create(r.Context(), input, upload, user.ID)
	if err != nil {
		if ve := service.AsValidationError(err); ve != nil {
			flashError(w, r, h.renderer, redirectAdminEventsNew, ve.Message)
			return
		}
		slog.Error("create event error", "error", err)
		flashError(w, r, h.renderer, redirectAdminEventsNew, "Could not create the event. Please try again.")
		return
	}

	slog.Info("event created", "event_id", event.ID, "title", event.Title, "user_id", user.ID)

	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event created successfully!")
}

// EditForm renders the event edit form.
func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}

	err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "Edit Event",
		Data: eventFormData{
			Event:      event,
			Categories: model.ValidCategories,
			IsEdit:     true,
		},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Update handles the event edit form submission. When no replacement
// image is uploaded the existing one is kept.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	editURL := editEventURL(event.ID)

	input, upload, ok := h.parseEventForm(w, r, editURL)
	if !ok {
		return
	}

	updated, err := h.events.Update(r.Context(), event.ID, input, upload)
	if err != nil {
		if ve := service.AsValidationError(err); ve != nil {
			flashError(w, r, h.renderer, editURL, ve.Message)
			return
		}
		slog.Error("update event error", "event_id", event.ID, "error", err)
		flashError(w, r, h.renderer, editURL, "Could not update the event. Please try again.")
		return
	}

	slog.Info("event updated", "event_id", updated.ID, "title", updated.Title)

	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event updated successfully!")
}

// DeleteConfirm renders the delete confirmation page.
func (h *EventsHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}

	err := h.renderer.Render(w, r, "admin/event_delete", render.TemplateData{
		Title: "Delete Event",
		Data:  eventFormData{Event: event},
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Delete handles the delete confirmation submission.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), event.ID); err != nil {
		slog.Error("delete event error", "event_id", event.ID, "error", err)
		flashError(w, r, h.renderer, redirectAdminEvents, "Could not delete the event. Please try again.")
		return
	}

	slog.Info("event deleted", "event_id", event.ID, "title", event.Title)

	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event deleted successfully!")
}

// eventFromPath loads the event named by the {id} URL parameter.
func (h *EventsHandler) eventFromPath(w http.ResponseWriter, r *http.Request) (model.Event, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return model.Event{}, false
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return model.Event{}, false
		}
		logAndInternalError(w, "get event error", "event_id", id, "error", err)
		return model.Event{}, false
	}

	return event, true
}

// parseEventForm reads the multipart event form. The returned upload is
// nil when no image file was submitted.
func (h *EventsHandler) parseEventForm(w http.ResponseWriter, r *http.Request, redirectURL string) (service.EventInput, *service.Upload, bool) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		slog.Warn("multipart parse error", "error", err)
		flashError(w, r, h.renderer, redirectURL, "Invalid form data")
		return service.EventInput{}, nil, false
	}

	input := service.EventInput{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		Category:        r.FormValue("category"),
		EventDate:       r.FormValue("event_date"),
		RegistrationURL: r.FormValue("registration_url"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, true
		}
		slog.Warn("image upload error", "error", err)
		flashError(w, r, h.renderer, redirectURL, "Could not read the uploaded image.")
		return service.EventInput{}, nil, false
	}

	upload := &service.Upload{
		File:     file,
		Filename: header.Filename,
		Size:     header.Size,
	}
	return input, upload, true
}
