package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"

	"github.com/medregistry/registry-api/internal/handler"
	"github.com/medregistry/registry-api/pkg/principal"
)

const (
	// ContextPrincipal is the gin context key holding the caller address.
	ContextPrincipal = "principal"

	// HeaderXPrincipal carries the caller address directly in dev mode.
	HeaderXPrincipal = "X-Principal"
)

type IdentityConfig struct {
	// JWTSecret verifies bearer tokens (HMAC). Empty enables dev mode,
	// where the caller address is read from the X-Principal header.
	JWTSecret string

	// CacheTTL bounds how long a parsed token is remembered. Only the
	// signature check and claim extraction are cached; authorization
	// decisions are made fresh inside the registry on every call.
	CacheTTL time.Duration
}

// IdentityMiddleware is the identity-context collaborator: it establishes
// the calling principal for each request and nothing more.
type IdentityMiddleware struct {
	secret []byte
	tokens *cache.Cache
}

func NewIdentityMiddleware(cfg IdentityConfig) *IdentityMiddleware {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	m := &IdentityMiddleware{
		tokens: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
	if cfg.JWTSecret != "" {
		m.secret = []byte(cfg.JWTSecret)
	}
	return m
}

// Authenticate resolves the caller principal and stores it in the context.
func (m *IdentityMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
			return
		}
		c.Set(ContextPrincipal, addr)
		c.Next()
	}
}

func (m *IdentityMiddleware) resolve(c *gin.Context) (principal.Address, error) {
	if m.secret == nil {
		raw := c.GetHeader(HeaderXPrincipal)
		if raw == "" {
			return "", fmt.Errorf("missing %s header", HeaderXPrincipal)
		}
		addr, err := principal.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid principal header: %w", err)
		}
		return addr, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization format")
	}
	return m.parseToken(parts[1])
}

func (m *IdentityMiddleware) parseToken(tokenString string) (principal.Address, error) {
	if cached, ok := m.tokens.Get(tokenString); ok {
		return cached.(principal.Address), nil
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	addr, err := principal.Parse(sub)
	if err != nil {
		return "", fmt.Errorf("token subject is not a principal: %w", err)
	}

	m.tokens.SetDefault(tokenString, addr)
	return addr, nil
}

// Principal pulls the caller address out of the gin context.
func Principal(c *gin.Context) principal.Address {
	if v, ok := c.Get(ContextPrincipal); ok {
		if addr, ok := v.(principal.Address); ok {
			return addr
		}
	}
	return principal.Zero
}
