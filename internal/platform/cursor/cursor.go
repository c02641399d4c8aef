// Package cursor encodes keyset pagination positions as opaque tokens
package cursor

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMalformed is returned for tokens this package did not produce
var ErrMalformed = errors.New("malformed cursor")

// Key is a (createdAt, id) keyset position
type Key struct {
	CreatedAt time.Time
	ID        string
}

// Encode packs a position into a url safe token
func Encode(k Key) string {
	raw := k.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + k.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode unpacks a token produced by Encode
func Decode(token string) (Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Key{}, ErrMalformed
	}
	at, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Key{}, ErrMalformed
	}
	ts, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Key{}, ErrMalformed
	}
	if _, err := uuid.Parse(id); err != nil {
		return Key{}, ErrMalformed
	}
	return Key{CreatedAt: ts, ID: id}, nil
}
