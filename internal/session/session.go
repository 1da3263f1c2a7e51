package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"boostshop/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Data is the per-visitor state carried between requests. The zero value is a
// valid anonymous session.
type Data struct {
	User          *domain.SessionUser `json:"user,omitempty"`
	Cart          []domain.Product    `json:"cart,omitempty"`
	Flash         string              `json:"flash,omitempty"`
	CaptchaAnswer string              `json:"captchaAnswer,omitempty"`
}

// Store holds session data keyed by the cookie-carried ID. Get on an unknown
// or expired ID returns ErrNotFound; callers treat that as a fresh session.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Put(ctx context.Context, id string, data Data) error
	Delete(ctx context.Context, id string) error
}

// NewID mints a session identifier. The cookie codec signs it on the way out.
func NewID() string {
	return uuid.NewString()
}
