// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated user's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
	// AdvisorID returns the advisor record linked to this user and
	// whether one exists. Admin accounts have no linked advisor.
	AdvisorID() (uuid.UUID, bool)
}

type identity struct {
	userID        uuid.UUID
	advisorID     uuid.UUID
	hasAdvisor    bool
	roles         []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

func (i *identity) AdvisorID() (uuid.UUID, bool) {
	return i.advisorID, i.hasAdvisor
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	roles, rolesOK := c.Get(ContextRolesKey)

	if !userOK {
		return &identity{authenticated: false}
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	result := &identity{userID: id, authenticated: true}
	if rolesOK {
		if roleList, ok := roles.([]string); ok {
			result.roles = roleList
		}
	}
	if advisorValue, ok := c.Get(ContextAdvisorIDKey); ok {
		if advisorID, ok := advisorValue.(uuid.UUID); ok {
			result.advisorID = advisorID
			result.hasAdvisor = true
		}
	}
	return result
}
