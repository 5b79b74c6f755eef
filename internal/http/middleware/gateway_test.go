package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/authcookie"
	"github.com/klap2026/klap/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokensByRole maps a test token string to its claims. Unknown tokens
// fail verification.
func gatewayRouter(dev bool, tokens map[string]*domain.TokenClaims) *gin.Engine {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		if claims, ok := tokens[token]; ok {
			return claims, nil
		}
		return nil, domain.ErrTokenInvalid
	}

	gw := NewAuthGateway(tokenSvc, mocks.NewMockPolicyService(), dev, false)

	r := gin.New()
	r.Use(gw.Handler())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	for _, path := range []string{
		"/", "/login", "/onboarding", "/dashboard", "/schedule", "/home", "/book", "/settings",
	} {
		r.GET(path, ok)
	}
	r.GET("/api/auth/me", ok)
	r.GET("/api/jobs", ok)
	return r
}

func TestAuthGateway_RedirectMatrix(t *testing.T) {
	tokens := map[string]*domain.TokenClaims{
		"tech-token":     {UserID: "user-t", Phone: "+972500000001", Role: domain.RoleTechnician},
		"customer-token": {UserID: "user-c", Phone: "+972500000002", Role: domain.RoleCustomer},
		"noRole-token":   {UserID: "user-n", Phone: "+972500000003"},
	}

	tests := []struct {
		name         string
		path         string
		token        string
		wantStatus   int
		wantLocation string
	}{
		{"no token to a page", "/dashboard", "", http.StatusFound, "/login"},
		{"no token to an api route", "/api/jobs", "", http.StatusFound, "/login"},
		{"invalid token", "/dashboard", "garbage", http.StatusFound, "/login"},
		{"public login needs no token", "/login", "", http.StatusOK, ""},

		{"technician reaches dashboard", "/dashboard", "tech-token", http.StatusOK, ""},
		{"technician reaches schedule", "/schedule", "tech-token", http.StatusOK, ""},
		{"technician on a customer page", "/home", "tech-token", http.StatusFound, "/dashboard"},
		{"technician on book", "/book", "tech-token", http.StatusFound, "/dashboard"},

		{"customer reaches home", "/home", "customer-token", http.StatusOK, ""},
		{"customer on a technician page", "/dashboard", "customer-token", http.StatusFound, "/home"},
		{"customer on settings", "/settings", "customer-token", http.StatusFound, "/home"},

		{"no role forced to onboarding", "/dashboard", "noRole-token", http.StatusFound, "/onboarding"},
		{"no role on the root", "/", "noRole-token", http.StatusFound, "/onboarding"},
		{"no role may stay on onboarding", "/onboarding", "noRole-token", http.StatusOK, ""},
		{"no role may call the api", "/api/auth/me", "noRole-token", http.StatusOK, ""},

		{"ungated root admits any role", "/", "tech-token", http.StatusOK, ""},
	}

	router := gatewayRouter(false, tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: authcookie.Name, Value: tt.token})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
		})
	}
}

func TestAuthGateway_InvalidTokenClearsCookie(t *testing.T) {
	router := gatewayRouter(false, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: authcookie.Name, Value: "garbage"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authcookie.Name, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge, "stale cookie must be deleted")
}

func TestAuthGateway_QueryTokenInDevelopment(t *testing.T) {
	tokens := map[string]*domain.TokenClaims{
		"tech-token": {UserID: "user-t", Role: domain.RoleTechnician},
	}

	t.Run("dev mode admits and persists a session cookie", func(t *testing.T) {
		router := gatewayRouter(true, tokens)
		req := httptest.NewRequest(http.MethodGet, "/dashboard?token=tech-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, authcookie.Name, cookies[0].Name)
		assert.Equal(t, "tech-token", cookies[0].Value)
		assert.Zero(t, cookies[0].MaxAge, "query tokens become session-scoped cookies")
	})

	t.Run("production ignores the query parameter", func(t *testing.T) {
		router := gatewayRouter(false, tokens)
		req := httptest.NewRequest(http.MethodGet, "/dashboard?token=tech-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestAuthGateway_InjectsIdentity(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.VerifyFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{UserID: "user-t", Role: domain.RoleTechnician}, nil
	}
	gw := NewAuthGateway(tokenSvc, mocks.NewMockPolicyService(), false, false)

	r := gin.New()
	r.Use(gw.Handler())
	r.GET("/dashboard", func(c *gin.Context) {
		userID, ok := Identity(c)
		require.True(t, ok)
		assert.Equal(t, "user-t", userID)
		assert.Equal(t, "user-t", c.Request.Header.Get(HeaderUserID))
		assert.Equal(t, domain.RoleTechnician, c.Request.Header.Get(HeaderUserRole))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: authcookie.Name, Value: "any"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGateway_StaticAssetsBypass(t *testing.T) {
	r := gin.New()
	gw := NewAuthGateway(mocks.NewMockTokenService(), mocks.NewMockPolicyService(), false, false)
	r.Use(gw.Handler())
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
