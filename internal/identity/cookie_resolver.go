package identity

import (
	"strings"

	"github.com/edustack/analogia/config"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CookieResolver implements the demo auth scheme: a role cookie selects the
// acting role and, for students, a second cookie carries the acting email.
// Missing identities fall back to config-driven demo users, which are
// created on first use.
type CookieResolver struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewCookieResolver(users repository.UserRepository, cfg *config.Config) *CookieResolver {
	return &CookieResolver{users: users, cfg: cfg}
}

func (r *CookieResolver) Resolve(c *gin.Context) (*Identity, error) {
	role, _ := c.Cookie(RoleCookie)
	role = strings.ToUpper(strings.TrimSpace(role))

	switch role {
	case model.RoleAdmin:
		return r.identityFor(r.cfg.Demo.AdminEmail, model.RoleAdmin)
	case model.RoleLecturer:
		return r.identityFor(r.cfg.Demo.LecturerEmail, model.RoleLecturer)
	case model.RoleStudent:
		email, _ := c.Cookie(StudentCookie)
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			email = r.cfg.Demo.StudentEmail
		}
		return r.identityFor(email, model.RoleStudent)
	default:
		return nil, errNoIdentity
	}
}

func (r *CookieResolver) identityFor(email, role string) (*Identity, error) {
	user, err := r.users.FindOrCreateByEmail(email, role)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to resolve demo user")
		return nil, err
	}
	return &Identity{User: user, Role: role}, nil
}

// StaticResolver always resolves to a fixed identity. Used by tests.
type StaticResolver struct {
	Identity *Identity
}

func (r *StaticResolver) Resolve(_ *gin.Context) (*Identity, error) {
	if r.Identity == nil {
		return nil, errNoIdentity
	}
	return r.Identity, nil
}
