package models

import (
	"encoding/json"
	"log/slog"
	"time"
)

// parseTimestamp decodes an RFC 3339 string or a Unix millisecond number.
// Anything else falls back to the current time and is logged.
func parseTimestamp(kind, id string, raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		slog.Warn("Missing timestamp, using current time", "kind", kind, "id", id)
		return time.Now()
	}

	var t time.Time
	if err := json.Unmarshal(raw, &t); err == nil {
		return t
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms)
	}

	slog.Warn("Malformed timestamp, using current time", "kind", kind, "id", id, "value", string(raw))
	return time.Now()
}
