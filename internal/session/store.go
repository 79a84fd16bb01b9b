// Package session keeps per-session conversation history and preferences
// behind a swappable store.
package session

import (
	"context"
	"errors"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

// ErrSessionNotFound is returned when a session is absent or expired.
var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions for a bounded time.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Name() string
}
