package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tribemart/tribemart-orders-service/internal/config"
)

const identityKey = "identity"

// RoleAdmin is the elevated role required for administrative operations.
const RoleAdmin = "admin"

// Identity is the verified caller, extracted from the bearer token. It is
// passed explicitly into service calls; services never read ambient session
// state.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Auth struct {
	cfg *config.Config
}

func NewAuth(cfg *config.Config) *Auth {
	return &Auth{cfg: cfg}
}

// Require validates the bearer token and stores the caller identity in the
// request context. Requests without a valid token are rejected with 401.
func (a *Auth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.Security.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid token claims")
			return
		}

		if a.cfg.Security.Issuer != "" && claims["iss"] != a.cfg.Security.Issuer {
			unauthorized(c, "invalid token issuer")
			return
		}
		if a.cfg.Security.Audience != "" && claims["aud"] != a.cfg.Security.Audience {
			unauthorized(c, "invalid token audience")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			unauthorized(c, "token missing subject")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(identityKey, Identity{UserID: sub, Role: role})
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after Require.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity stored by Require.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
