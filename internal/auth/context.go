package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orbis-25/orbis-projects-backend/internal/users"
)

const (
	CtxUser = "orbis_user"
)

// UserEnsurer resolves an external identity to a stored user id.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (int64, error)
}

// WithUser verifies the bearer identity token and stores the acting user in
// the context. Identity and capabilities come only from the signed token.
func WithUser(repo UserEnsurer, ids IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		identity, err := ids.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		id, err := repo.EnsureUser(c.Request.Context(), users.UpsertUser{
			ExternalID:  identity.ExternalID,
			DisplayName: identity.DisplayName,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user: " + err.Error()})
			return
		}

		u := NewUser(id, identity.DisplayName, identity.Capabilities...)
		u.ExternalID = identity.ExternalID
		if identity.Posts != nil {
			u = u.WithPosts(identity.Posts...)
		}
		c.Set(CtxUser, u)
		c.Next()
	}
}

// CurrentUser returns the acting user set by WithUser.
func CurrentUser(c *gin.Context) (User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
