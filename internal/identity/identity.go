package identity

import (
	"errors"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/model"
	"github.com/gin-gonic/gin"
)

// Cookies used by the demo auth scheme.
const (
	RoleCookie    = "demo_role"
	StudentCookie = "demo_student"
)

const contextKey = "identity"

// Identity is the resolved caller of a request. Handlers receive it through
// the gin context instead of reading cookies themselves.
type Identity struct {
	User *model.User
	Role string
}

func (id *Identity) IsLecturer() bool { return id != nil && id.Role == model.RoleLecturer }
func (id *Identity) IsStudent() bool  { return id != nil && id.Role == model.RoleStudent }
func (id *Identity) IsAdmin() bool    { return id != nil && id.Role == model.RoleAdmin }

// Resolver maps a request to an Identity. Implementations exist for the demo
// cookie scheme and for test fixtures.
type Resolver interface {
	Resolve(c *gin.Context) (*Identity, error)
}

// Middleware resolves the caller once per request and stores the result in
// the gin context. Requests with no resolvable identity proceed anonymously;
// role checks happen at the handler layer.
func Middleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.Resolve(c)
		if err == nil && id != nil {
			c.Set(contextKey, id)
		}
		c.Next()
	}
}

// FromContext returns the resolved Identity or nil for anonymous requests.
func FromContext(c *gin.Context) *Identity {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}

// RequireRole returns the current identity if it carries the wanted role,
// or a not-found error so protected resources do not leak their existence.
func RequireRole(c *gin.Context, role string) (*Identity, error) {
	id := FromContext(c)
	if id == nil || id.Role != role {
		return nil, apperr.NotFound("not found")
	}
	return id, nil
}

var errNoIdentity = errors.New("no identity on request")
