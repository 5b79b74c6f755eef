package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/authcookie"
)

// Gin context keys the gateway populates for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// Identity headers forwarded to handlers. Handlers trust these only
// because the gateway runs unconditionally ahead of every route.
const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"
)

// Routes reachable without a token.
var publicRoutes = []string{
	"/login",
	"/api/auth/send-otp",
	"/api/auth/verify-otp",
	"/healthz",
	"/metrics",
}

// AuthGateway is the per-request interceptor gating every route. Each
// request walks a linear chain: public bypass, static bypass, token
// acquisition (cookie, or query parameter in development), token
// verification, role gating, identity injection. The chain always ends
// in a redirect or a single context-injected pass-through.
type AuthGateway struct {
	tokenSvc  domain.TokenService
	policySvc domain.PolicyService
	dev       bool
	secure    bool
}

// NewAuthGateway creates the gateway. dev enables the query-token
// fallback used for multi-tab testing; secure marks cookies Secure.
func NewAuthGateway(tokenSvc domain.TokenService, policySvc domain.PolicyService, dev, secure bool) *AuthGateway {
	return &AuthGateway{tokenSvc: tokenSvc, policySvc: policySvc, dev: dev, secure: secure}
}

// Handler returns the gin middleware.
func (g *AuthGateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, route := range publicRoutes {
			if strings.HasPrefix(path, route) {
				c.Next()
				return
			}
		}

		// Static assets carry an extension.
		if strings.Contains(path, ".") || strings.HasPrefix(path, "/static/") {
			c.Next()
			return
		}

		token := ""
		tokenFromQuery := false
		if g.dev {
			if qt := c.Query("token"); qt != "" {
				token = qt
				tokenFromQuery = true
			}
		}
		if token == "" {
			token = authcookie.Token(c)
		}
		if token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := g.tokenSvc.Verify(token)
		if err != nil {
			authcookie.Clear(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// Persist a query-supplied token as a session cookie so the
		// rest of the tab's navigation works without the parameter.
		if tokenFromQuery {
			authcookie.SetSession(c, token, g.secure)
		}

		if claims.Role == "" {
			if !strings.HasPrefix(path, "/onboarding") && !strings.HasPrefix(path, "/api/") {
				c.Redirect(http.StatusFound, "/onboarding")
				c.Abort()
				return
			}
			g.admit(c, claims)
			return
		}

		gated, err := g.policySvc.RoleGated(path, c.Request.Method)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("policy check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if gated {
			allowed, err := g.policySvc.Allowed(claims.Role, path, c.Request.Method)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("policy check failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
				return
			}
			if !allowed {
				// Not an error page: send the caller to where they
				// belong.
				c.Redirect(http.StatusFound, landingFor(claims.Role))
				c.Abort()
				return
			}
		}

		g.admit(c, claims)
	}
}

func (g *AuthGateway) admit(c *gin.Context, claims *domain.TokenClaims) {
	c.Request.Header.Set(HeaderUserID, claims.UserID)
	c.Request.Header.Set(HeaderUserRole, claims.Role)
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUserRole, claims.Role)
	c.Next()
}

func landingFor(role string) string {
	if role == domain.RoleTechnician {
		return "/dashboard"
	}
	return "/home"
}

// Identity returns the caller's user id resolved by the gateway.
func Identity(c *gin.Context) (string, bool) {
	userID := c.GetString(CtxUserID)
	return userID, userID != ""
}
