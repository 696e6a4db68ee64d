package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller of an admin endpoint.
// Handlers read it through GetIdentity instead of reaching into gin keys.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
	HasRole(role string) bool
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID     { return i.userID }
func (i *identity) Roles() []string       { return i.roles }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

func (i *identity) HasRole(role string) bool {
	return slices.Contains(i.roles, role)
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	var roleList []string
	if roles, rolesOK := c.Get(ContextRolesKey); rolesOK {
		roleList, _ = roles.([]string)
	}

	return &identity{
		userID:        uid,
		roles:         roleList,
		authenticated: true,
	}
}
