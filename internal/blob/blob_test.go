// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorePutAndDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "events/123_poster.jpg", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/events/123_poster.jpg" {
		t.Errorf("url = %q, want /uploads/events/123_poster.jpg", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "events", "123_poster.jpg"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content = %q", data)
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "events", "123_poster.jpg")); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if err := store.Delete(context.Background(), "/uploads/events/does-not-exist.jpg"); err != nil {
		t.Errorf("Delete of missing object: %v", err)
	}
}

func TestLocalStoreDeleteIgnoresExternalURLs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if err := store.Delete(context.Background(), "https://example.com/some.jpg"); err != nil {
		t.Errorf("Delete of external URL: %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	// Cleaned keys stay rooted under the uploads dir.
	url, err := store.Put(context.Background(), "../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Errorf("url = %q, want /uploads/ prefix", url)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "escape.txt")); err != nil {
		t.Errorf("expected file inside root: %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("events", "my poster.jpg")

	if !strings.HasPrefix(key, "events/") {
		t.Errorf("key = %q, want events/ prefix", key)
	}
	if !strings.HasSuffix(key, "_my-poster.jpg") {
		t.Errorf("key = %q, want sanitized filename suffix", key)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"poster.jpg", "poster.jpg"},
		{"my file.png", "my-file.png"},
		{"../../etc/passwd", "passwd.bin"},
		{"a<b>&c.gif", "abc.gif"},
		{"noext", "noext.bin"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
