// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the signed-in dashboard user.
// Handlers read it without depending on how the session was carried.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Email returns the session email.
	Email() string
	// IsAdmin reports whether the user may use the dashboard write surface.
	IsAdmin() bool
	// IsAuthenticated returns true if a valid session was presented.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	email         string
	admin         bool
	authenticated bool
}

func (i *identity) UserID() uuid.UUID     { return i.userID }
func (i *identity) Email() string         { return i.email }
func (i *identity) IsAdmin() bool         { return i.admin }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if no session was attached.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{}
	}
	uid, ok := raw.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	return &identity{
		userID:        uid,
		email:         c.GetString(ContextEmailKey),
		admin:         c.GetBool(ContextAdminKey),
		authenticated: true,
	}
}
