package middleware

import (
	"log"
	"net/http"
	"strings"

	"gamerx/internal/repository"
	"gamerx/internal/token"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by Authenticate
const (
	ClaimsKey   = "claims"
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// Authenticator validates session tokens and enforces role allow-lists
type Authenticator struct {
	tokens *token.Manager
	users  repository.UserRepository
}

func NewAuthenticator(tokens *token.Manager, users repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, response.Error(status, msg))
}

// Authenticate requires a valid `Authorization: Bearer <token>` header and stores the
// token claims on the request context.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization is missing")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'")
			return
		}

		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.ID)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// Authorize must run after Authenticate. Besides checking the token's role it re-reads the
// stored account, so a demoted or deleted user loses access before the token expires.
func (a *Authenticator) Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !roleAllowed(claims.Role, allowedRoles) {
			abort(c, http.StatusForbidden, "Access denied: insufficient permissions")
			return
		}

		user, err := a.users.GetByID(c.Request.Context(), claims.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				abort(c, http.StatusUnauthorized, "Account no longer exists")
				return
			}
			log.Printf("ERROR: role check for user %s failed: %v", claims.ID, err)
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user.Role != claims.Role {
			abort(c, http.StatusForbidden, "Access denied: role has changed, please log in again")
			return
		}

		c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// CurrentClaims returns the claims stored by Authenticate
func CurrentClaims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.ID, true
}
