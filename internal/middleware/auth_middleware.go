package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dataplatform/internal/auth"
	"dataplatform/internal/model"
)

// Context keys set by the middleware
const (
	CallerKey    = "caller"
	RequestIDKey = "request_id"
)

// Authenticator resolves the caller identity for a request. Implementations
// are injected at server setup; handlers only ever see the resolved Caller.
type Authenticator interface {
	Authenticate(c *gin.Context) (*model.Caller, error)
}

// JWTAuthenticator verifies a Bearer token from the Authorization header.
type JWTAuthenticator struct {
	tokens *auth.TokenManager
}

func NewJWTAuthenticator(tokens *auth.TokenManager) *JWTAuthenticator {
	return &JWTAuthenticator{tokens: tokens}
}

func (a *JWTAuthenticator) Authenticate(c *gin.Context) (*model.Caller, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	return a.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
}

// StaticAuthenticator injects a fixed identity into every request. Used when
// the deployment runs without real authentication.
type StaticAuthenticator struct {
	Caller model.Caller
}

func (a StaticAuthenticator) Authenticate(_ *gin.Context) (*model.Caller, error) {
	caller := a.Caller
	return &caller, nil
}

// AuthMiddleware проверяет личность вызывающего и кладет её в контекст
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := authn.Authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		c.Set(CallerKey, *caller)
		c.Next()
	}
}

// RequestID присваивает каждому запросу уникальный идентификатор
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// CallerFrom reads the resolved caller identity out of the request context.
func CallerFrom(c *gin.Context) (model.Caller, bool) {
	value, exists := c.Get(CallerKey)
	if !exists {
		return model.Caller{}, false
	}
	caller, ok := value.(model.Caller)
	return caller, ok
}
