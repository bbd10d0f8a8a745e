package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireAuth enforces bearer JWT tokens signed with HS256 and stores the
// resolved actor on the gin context.
func RequireAuth(keys Keys) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "No token provided"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := keys.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token is invalid"})
			return
		}
		c.Set(actorKey, Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// ActorFrom returns the authenticated actor stored by RequireAuth.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}
