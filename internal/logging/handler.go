// Package logging provides a custom slog handler that writes WARN level
// and above to the database-backed audit log.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"eventdesk/internal/store"
)

// Audit log severity levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the audit log database.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to the audit log (default: WARN)
}

// NewAuditLogHandler creates a new AuditLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler
// and the audit log.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// NewAuditLogHandlerWithLevel creates a new AuditLogHandler with a custom
// minimum level.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeToAuditLog writes a log record to the audit log database.
func (h *AuditLogHandler) writeToAuditLog(r slog.Record) {
	userID, path := extractRequestAttrs(r)

	// Use a background context so the entry is written even if the
	// request context is already cancelled.
	_ = h.queries.CreateAuditEntry(context.Background(), store.CreateAuditEntryParams{
		Level:    slogLevelToAuditLevel(r.Level),
		Message:  r.Message,
		UserID:   userID,
		Path:     path,
		Metadata: extractMetadata(r),
	})
}

// slogLevelToAuditLevel converts a slog.Level to an audit log level.
func slogLevelToAuditLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// extractRequestAttrs pulls the well-known user_id and path attributes
// out of a record so they land in dedicated columns.
func extractRequestAttrs(r slog.Record) (sql.NullInt64, string) {
	var userID sql.NullInt64
	var path string

	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "user_id":
			if v, ok := a.Value.Any().(int64); ok {
				userID = sql.NullInt64{Int64: v, Valid: true}
			}
		case "path":
			path = a.Value.String()
		}
		return true
	})

	return userID, path
}

// extractMetadata collects remaining log attributes into a JSON string.
func extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "user_id" || a.Key == "path" {
			return true // Already extracted into columns
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})

	sb.WriteString("}")
	return sb.String()
}

// escapeJSON escapes special characters in a string for JSON.
func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
