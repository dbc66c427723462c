// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic for managing and listing
// event records.
package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"eventdesk/internal/blob"
	"eventdesk/internal/imaging"
	"eventdesk/internal/model"
	"eventdesk/internal/store"
	"eventdesk/internal/util"
)

// MaxUploadSize caps event image uploads.
const MaxUploadSize = 20 * 1024 * 1024 // 20MB

// htmlSanitizer strips unsafe markup from user-supplied descriptions.
// UGCPolicy allows safe HTML tags for user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// ValidationError carries a message suitable for showing to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidationError returns the ValidationError wrapped in err, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// EventInput holds the submitted fields for creating or updating an event.
type EventInput struct {
	Title           string
	Description     string
	Category        string
	EventDate       string // YYYY-MM-DD, optional
	RegistrationURL string
}

// Upload is an optional image attached to an event submission.
type Upload struct {
	File     io.Reader
	Filename string
	Size     int64
}

// EventService handles event record CRUD including image handling.
type EventService struct {
	queries   *store.Queries
	processor *imaging.Processor
	blobs     blob.Store
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, blobs blob.Store) *EventService {
	return &EventService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(),
		blobs:     blobs,
	}
}

// List returns all events newest-created first.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.queries.ListEvents(ctx)
}

// Get returns a single event by ID.
func (s *EventService) Get(ctx context.Context, id int64) (model.Event, error) {
	return s.queries.GetEventByID(ctx, id)
}

// Create validates the input, stores an uploaded image if present and
// creates the event record. Events without an uploaded image get the
// shared placeholder image.
func (s *EventService) Create(ctx context.Context, input EventInput, upload *Upload, createdBy int64) (model.Event, error) {
	params, err := s.validate(input)
	if err != nil {
		return model.Event{}, err
	}

	imageURL := model.PlaceholderImageURL
	if upload != nil {
		imageURL, err = s.storeImage(ctx, upload)
		if err != nil {
			return model.Event{}, err
		}
	}

	id, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Title:           params.Title,
		Description:     params.Description,
		ImageURL:        imageURL,
		RegistrationURL: params.RegistrationURL,
		Category:        params.Category,
		EventDate:       params.EventDate,
		CreatedBy:       createdBy,
	})
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}

	return s.queries.GetEventByID(ctx, id)
}

// Update applies the submitted fields to an existing event. The stored
// image URL is only replaced when a new image is uploaded.
func (s *EventService) Update(ctx context.Context, id int64, input EventInput, upload *Upload) (model.Event, error) {
	current, err := s.queries.GetEventByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}

	params, err := s.validate(input)
	if err != nil {
		return model.Event{}, err
	}

	imageURL := current.ImageURL
	if upload != nil {
		imageURL, err = s.storeImage(ctx, upload)
		if err != nil {
			return model.Event{}, err
		}
	}

	err = s.queries.UpdateEvent(ctx, store.UpdateEventParams{
		ID:              id,
		Title:           params.Title,
		Description:     params.Description,
		ImageURL:        imageURL,
		RegistrationURL: params.RegistrationURL,
		Category:        params.Category,
		EventDate:       params.EventDate,
	})
	if err != nil {
		return model.Event{}, fmt.Errorf("updating event: %w", err)
	}

	return s.queries.GetEventByID(ctx, id)
}

// Delete removes the event record and its stored image. The image
// delete is best effort: a failure is logged and the record is removed
// anyway.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	event, err := s.queries.GetEventByID(ctx, id)
	if err != nil {
		return err
	}

	if event.ImageURL != "" && event.ImageURL != model.PlaceholderImageURL {
		if err := s.blobs.Delete(ctx, event.ImageURL); err != nil {
			slog.Warn("failed to delete event image", "error", err, "event_id", id, "url", event.ImageURL)
		}
	}

	if err := s.queries.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	return nil
}

// validatedInput is an EventInput after validation and normalization.
type validatedInput struct {
	Title           string
	Description     string
	Category        string
	EventDate       sql.NullTime
	RegistrationURL string
}

// validate cleans and checks submitted fields.
func (s *EventService) validate(input EventInput) (validatedInput, error) {
	out := validatedInput{
		Title:       strings.TrimSpace(input.Title),
		Description: htmlSanitizer.Sanitize(strings.TrimSpace(input.Description)),
		Category:    model.NormalizeCategory(input.Category),
	}

	if out.Title == "" {
		return out, &ValidationError{Message: "Title is required."}
	}

	eventDate, err := util.ParseNullDate(input.EventDate)
	if err != nil {
		return out, &ValidationError{Message: "Event date must be in YYYY-MM-DD format."}
	}
	out.EventDate = eventDate

	regURL := strings.TrimSpace(input.RegistrationURL)
	if regURL != "" {
		parsed, err := url.Parse(regURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return out, &ValidationError{Message: "Registration link must be an http or https URL."}
		}
	}
	out.RegistrationURL = regURL

	return out, nil
}

// storeImage processes the uploaded image and writes it to the blob store.
func (s *EventService) storeImage(ctx context.Context, upload *Upload) (string, error) {
	if upload.Size > MaxUploadSize {
		return "", &ValidationError{Message: "Image is too large (20MB max)."}
	}

	result, err := s.processor.Process(io.LimitReader(upload.File, MaxUploadSize+1))
	if err != nil {
		return "", &ValidationError{Message: "Image could not be read. Use a JPEG, PNG, GIF or WebP file."}
	}

	// Name the stored object after the bytes actually written, not the
	// client-supplied extension (a WebP upload is transcoded to JPEG).
	name := strings.TrimSuffix(upload.Filename, path.Ext(upload.Filename)) + imaging.FileExt(result.MimeType)
	key := blob.ObjectKey("events", name)
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(result.Data))
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	return url, nil
}
