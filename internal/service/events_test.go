// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"eventdesk/internal/model"
	"eventdesk/internal/testutil"
)

// memBlobStore is an in-memory blob.Store for tests.
type memBlobStore struct {
	objects    map[string][]byte
	failDelete bool
	deleted    []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + key
	m.objects[url] = data
	return url, nil
}

func (m *memBlobStore) Delete(_ context.Context, url string) error {
	if m.failDelete {
		return errors.New("storage unavailable")
	}
	m.deleted = append(m.deleted, url)
	delete(m.objects, url)
	return nil
}

func newTestEventService(t *testing.T) (*EventService, *memBlobStore, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	blobs := newMemBlobStore()
	return NewEventService(db, blobs), blobs, cleanup
}

func pngUpload(t *testing.T, filename string) *Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return &Upload{File: &buf, Filename: filename, Size: int64(buf.Len())}
}

func validInput() EventInput {
	return EventInput{
		Title:       "Go Workshop",
		Description: "Learn Go basics",
		Category:    model.CategoryWorkshop,
		EventDate:   "2026-03-14",
	}
}

func TestEventServiceCreateWithoutImage(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	event, err := svc.Create(ctx, validInput(), nil, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if event.ImageURL != model.PlaceholderImageURL {
		t.Errorf("ImageURL = %q, want placeholder", event.ImageURL)
	}
	if event.Title != "Go Workshop" {
		t.Errorf("Title = %q", event.Title)
	}
	if !event.EventDate.Valid || event.EventDate.Time.Year() != 2026 {
		t.Errorf("EventDate = %+v, want 2026-03-14", event.EventDate)
	}
	if event.CreatedBy != 1 {
		t.Errorf("CreatedBy = %d, want 1", event.CreatedBy)
	}
}

func TestEventServiceCreateWithImage(t *testing.T) {
	svc, blobs, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	event, err := svc.Create(ctx, validInput(), pngUpload(t, "poster.png"), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(event.ImageURL, "/uploads/events/") {
		t.Errorf("ImageURL = %q, want /uploads/events/ prefix", event.ImageURL)
	}
	if !strings.HasSuffix(event.ImageURL, "_poster.png") {
		t.Errorf("ImageURL = %q, want timestamped filename suffix", event.ImageURL)
	}
	if _, ok := blobs.objects[event.ImageURL]; !ok {
		t.Error("uploaded image not found in blob store")
	}
}

func TestEventServiceCreateRenamesStoredImage(t *testing.T) {
	svc, blobs, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	// The upload carries PNG bytes under a misleading name. The stored
	// key must match the encoded format, not the client extension.
	event, err := svc.Create(ctx, validInput(), pngUpload(t, "poster.webp"), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasSuffix(event.ImageURL, "_poster.png") {
		t.Errorf("ImageURL = %q, want .png extension matching stored bytes", event.ImageURL)
	}
	if strings.Contains(event.ImageURL, ".webp") {
		t.Errorf("ImageURL = %q, retains client-supplied extension", event.ImageURL)
	}
	if _, ok := blobs.objects[event.ImageURL]; !ok {
		t.Error("uploaded image not found in blob store")
	}
}

func TestEventServiceCreateValidation(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		input EventInput
	}{
		{"empty title", EventInput{Title: "   "}},
		{"bad date", EventInput{Title: "X", EventDate: "14/03/2026"}},
		{"bad registration url", EventInput{Title: "X", RegistrationURL: "ftp://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input, nil, 1)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if AsValidationError(err) == nil {
				t.Errorf("error %v is not a ValidationError", err)
			}
		})
	}
}

func TestEventServiceCreateNormalizesCategory(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	input := validInput()
	input.Category = "flashmob"

	event, err := svc.Create(ctx, input, nil, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.Category != model.CategoryWorkshop {
		t.Errorf("Category = %q, want workshop fallback", event.Category)
	}
}

func TestEventServiceCreateSanitizesDescription(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	input := validInput()
	input.Description = `Learn Go <script>alert("x")</script><b>fast</b>`

	event, err := svc.Create(ctx, input, nil, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(event.Description, "<script>") {
		t.Errorf("Description kept script tag: %q", event.Description)
	}
	if !strings.Contains(event.Description, "<b>fast</b>") {
		t.Errorf("Description lost safe markup: %q", event.Description)
	}
}

func TestEventServiceUpdatePreservesImage(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput(), pngUpload(t, "poster.png"), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	input := validInput()
	input.Title = "Go Workshop (updated)"

	updated, err := svc.Update(ctx, created.ID, input, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "Go Workshop (updated)" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.ImageURL != created.ImageURL {
		t.Errorf("ImageURL changed without upload: %q -> %q", created.ImageURL, updated.ImageURL)
	}
	if !updated.UpdatedAt.Valid {
		t.Error("UpdatedAt not set after update")
	}
}

func TestEventServiceUpdateReplacesImage(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput(), nil, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, validInput(), pngUpload(t, "new.png"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ImageURL == model.PlaceholderImageURL {
		t.Error("ImageURL still placeholder after upload")
	}
	if !strings.HasPrefix(updated.ImageURL, "/uploads/events/") {
		t.Errorf("ImageURL = %q", updated.ImageURL)
	}
}

func TestEventServiceUpdateMissingEvent(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()

	_, err := svc.Update(context.Background(), 9999, validInput(), nil)
	if err == nil {
		t.Fatal("expected error for missing event")
	}
}

func TestEventServiceDelete(t *testing.T) {
	svc, blobs, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput(), pngUpload(t, "poster.png"), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); err == nil {
		t.Error("event still present after delete")
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != created.ImageURL {
		t.Errorf("deleted blobs = %v, want [%s]", blobs.deleted, created.ImageURL)
	}
}

func TestEventServiceDeleteSurvivesBlobFailure(t *testing.T) {
	svc, blobs, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput(), pngUpload(t, "poster.png"), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	blobs.failDelete = true

	// Record delete proceeds even when image cleanup fails.
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); err == nil {
		t.Error("event still present after delete")
	}
}

func TestEventServiceDeleteSkipsPlaceholder(t *testing.T) {
	svc, blobs, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput(), nil, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deleted) != 0 {
		t.Errorf("placeholder image was deleted: %v", blobs.deleted)
	}
}

func TestEventServiceListOrder(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		input := validInput()
		input.Title = fmt.Sprintf("Event %d", i)
		if _, err := svc.Create(ctx, input, nil, 1); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	events, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	// Newest first
	if events[0].Title != "Event 3" || events[2].Title != "Event 1" {
		t.Errorf("order = [%s %s %s]", events[0].Title, events[1].Title, events[2].Title)
	}
}

func TestEventServiceRejectsOversizedUpload(t *testing.T) {
	svc, _, cleanup := newTestEventService(t)
	defer cleanup()

	upload := &Upload{File: strings.NewReader("x"), Filename: "big.png", Size: MaxUploadSize + 1}
	_, err := svc.Create(context.Background(), validInput(), upload, 1)
	if err == nil {
		t.Fatal("expected error for oversized upload")
	}
	if AsValidationError(err) == nil {
		t.Errorf("error %v is not a ValidationError", err)
	}
}
