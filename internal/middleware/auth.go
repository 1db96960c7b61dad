package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

const bearerPrefix = "Bearer "

type identityKey struct{}

// TokenVerifier checks a bearer token and returns the caller it was issued to.
type TokenVerifier interface {
	Verify(token string) (services.Identity, error)
}

// RequireAuth checks the bearer token on the request. A missing or malformed
// header is rejected with 401, a token that fails verification with 403.
func RequireAuth(tokens TokenVerifier, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			apierrors.Unauthorized(c, "Access denied. No token provided.")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			apierrors.Unauthorized(c, "Access denied. No token provided.")
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			log.WithFields(logrus.Fields{
				"path":  c.FullPath(),
				"error": err,
			}).Warn("Rejected bearer token")
			apierrors.Forbidden(c, "Invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, identity services.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller attached by RequireAuth.
func IdentityFrom(ctx context.Context) (services.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(services.Identity)
	return identity, ok
}

// CurrentIdentity retrieves the current caller from the request context
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	return IdentityFrom(c.Request.Context())
}
