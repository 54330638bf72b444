// Package artifact stores rendered chart images per session and request.
package artifact

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no artifact exists for a key.
var ErrNotFound = errors.New("artifact not found")

// ErrInvalidKey is returned for keys not shaped <session>/<request>/<name>.
var ErrInvalidKey = errors.New("invalid artifact key")

// Store holds chart artifacts.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key builds the artifact key for a chart rendered during one request.
func Key(sessionID, requestID, name string) string {
	return sessionID + "/" + requestID + "/" + name + ".png"
}

// Owner returns the session ID a key belongs to.
// POST: Returns ErrInvalidKey unless key has three non-empty segments and no dot-segments
func Owner(key string) (string, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 {
		return "", ErrInvalidKey
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return "", ErrInvalidKey
		}
	}
	return parts[0], nil
}
