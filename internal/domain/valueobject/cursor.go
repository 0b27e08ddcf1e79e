// Package valueobject defines immutable domain values shared across layers.
package valueobject

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// cursorSeparator joins the fields of a keyset cursor. It never appears in
// RFC 3339 timestamps or canonical UUIDs, so splitting on it is unambiguous.
const cursorSeparator = "|"

// encodeKeyset packs ordered key fields into an opaque token.
func encodeKeyset(fields ...string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, cursorSeparator)))
}

// decodeKeyset unpacks an opaque token and validates the field count.
// A token with the wrong structure is rejected, never silently truncated.
func decodeKeyset(token string, want int) ([]string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("cursor is not valid base64: %w", err)
	}

	fields := strings.Split(string(raw), cursorSeparator)
	if len(fields) != want {
		return nil, fmt.Errorf("cursor has %d fields, expected %d", len(fields), want)
	}
	return fields, nil
}

// EventCursor identifies the last row of a page in the goal event listing,
// ordered by (created_at DESC, id DESC). Callers treat the encoded form as
// opaque; only this codec constructs or interprets it.
type EventCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode returns the opaque wire form of the cursor.
func (c EventCursor) Encode() string {
	return encodeKeyset(c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID.String())
}

// DecodeEventCursor parses an opaque cursor token.
//
// Every structural defect fails fast: wrong field count, malformed timestamp,
// malformed id. Resetting pagination on a bad cursor would silently re-serve
// rows, so the caller is expected to surface the error instead.
func DecodeEventCursor(token string) (EventCursor, error) {
	fields, err := decodeKeyset(token, 2)
	if err != nil {
		return EventCursor{}, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return EventCursor{}, fmt.Errorf("cursor timestamp is malformed: %w", err)
	}

	id, err := uuid.Parse(fields[1])
	if err != nil {
		return EventCursor{}, fmt.Errorf("cursor id is malformed: %w", err)
	}

	return EventCursor{CreatedAt: createdAt.UTC(), ID: id}, nil
}
