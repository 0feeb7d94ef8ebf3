package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/utils"
)

// RequireRole admits requests whose CtxRole is one of allowed. It must run
// after JWTAuth or LoadSession; a request with no role at all is treated as
// unauthenticated.
func RequireRole(allowed ...models.AccountRole) gin.HandlerFunc {
	allow := make(map[models.AccountRole]bool, len(allowed))
	for _, a := range allowed {
		allow[normalizeRole(string(a))] = true
	}

	return func(c *gin.Context) {
		role := normalizeRole(c.GetString(CtxRole))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		if !allow[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }

func normalizeRole(s string) models.AccountRole {
	return models.AccountRole(strings.ToLower(strings.TrimSpace(s)))
}
