package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tribemart/tribemart-orders-service/internal/config"
)

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Security.JWTSecret = "test_jwt_secret"
	cfg.Security.Issuer = "tribemart"
	cfg.Security.Audience = "tribemart-api"
	return cfg
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, cfg *config.Config, header string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}

	NewAuth(cfg).Require()(c)
	return w, c
}

func TestAuthRequire_ValidToken(t *testing.T) {
	cfg := testAuthConfig()
	token := signToken(t, cfg.Security.JWTSecret, jwt.MapClaims{
		"sub":  "user_1",
		"role": "customer",
		"iss":  "tribemart",
		"aud":  "tribemart-api",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w, c := runAuth(t, cfg, "Bearer "+token)
	if w.Code == http.StatusUnauthorized {
		t.Fatalf("valid token rejected: %s", w.Body.String())
	}

	identity, ok := IdentityFrom(c)
	if !ok {
		t.Fatal("identity not stored in context")
	}
	if identity.UserID != "user_1" || identity.Role != "customer" {
		t.Errorf("unexpected identity %+v", identity)
	}
	if identity.IsAdmin() {
		t.Error("customer must not be admin")
	}
}

func TestAuthRequire_Rejections(t *testing.T) {
	cfg := testAuthConfig()

	valid := jwt.MapClaims{
		"sub": "user_1",
		"iss": "tribemart",
		"aud": "tribemart-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other_secret", valid)},
		{"expired", "Bearer " + signToken(t, cfg.Security.JWTSecret, jwt.MapClaims{
			"sub": "user_1",
			"iss": "tribemart",
			"aud": "tribemart-api",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"wrong issuer", "Bearer " + signToken(t, cfg.Security.JWTSecret, jwt.MapClaims{
			"sub": "user_1",
			"iss": "someone-else",
			"aud": "tribemart-api",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"wrong audience", "Bearer " + signToken(t, cfg.Security.JWTSecret, jwt.MapClaims{
			"sub": "user_1",
			"iss": "tribemart",
			"aud": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"missing subject", "Bearer " + signToken(t, cfg.Security.JWTSecret, jwt.MapClaims{
			"iss": "tribemart",
			"aud": "tribemart-api",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := runAuth(t, cfg, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := testAuthConfig()
	gin.SetMode(gin.TestMode)

	run := func(identity *Identity) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/orders/ord_1/status", nil)
		if identity != nil {
			c.Set(identityKey, *identity)
		}
		NewAuth(cfg).RequireAdmin()(c)
		return w
	}

	if w := run(&Identity{UserID: "admin_1", Role: RoleAdmin}); w.Code == http.StatusForbidden || w.Code == http.StatusUnauthorized {
		t.Errorf("admin rejected with %d", w.Code)
	}
	if w := run(&Identity{UserID: "user_1", Role: "customer"}); w.Code != http.StatusForbidden {
		t.Errorf("customer got %d, expected 403", w.Code)
	}
	if w := run(nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous got %d, expected 401", w.Code)
	}
}
