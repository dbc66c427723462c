// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blob stores uploaded binary objects and resolves them to
// public URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store persists binary objects under hierarchical keys and serves them
// back by URL.
type Store interface {
	// Put writes the object under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Delete removes the object a previous Put returned url for.
	// Deleting an object that no longer exists is not an error.
	Delete(ctx context.Context, url string) error
}

// URLPrefix is the public path prefix objects are served under.
const URLPrefix = "/uploads/"

// ObjectKey builds a collision-resistant key for an uploaded file by
// prefixing the sanitized filename with the upload time in milliseconds.
func ObjectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%d_%s", prefix, time.Now().UnixMilli(), sanitizeFilename(filename))
}

// LocalStore keeps objects on the local filesystem under a root
// directory that the HTTP server exposes at URLPrefix.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Root returns the store's base directory.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key = normalizeKey(key)
	cleaned, err := s.safePath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(cleaned)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return URLPrefix + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		// External URLs (e.g. the placeholder image) are not ours to delete.
		return nil
	}

	cleaned, err := s.safePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// normalizeKey strips traversal segments so the key stays rooted.
func normalizeKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}

// safePath resolves key under the root, rejecting traversal outside it.
func (s *LocalStore) safePath(key string) (string, error) {
	cleaned := filepath.Join(s.root, filepath.FromSlash(normalizeKey(key)))
	if rel, err := filepath.Rel(s.root, cleaned); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}

func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = filepath.Base(filename)

	// Replace problematic characters
	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	return filename
}
