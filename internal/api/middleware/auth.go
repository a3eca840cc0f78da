package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// Authenticate verifies the bearer token and resolves the caller. Requests
// without a usable Authorization header never reach the handlers.
func Authenticate(verifier *auth.Verifier, resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			WriteError(c, err)
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			WriteError(c, err)
			return
		}

		SetCaller(c, resolver.Resolve(claims))
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.Unauthenticated("missing")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.Unauthenticated("malformed")
	}
	return parts[1], nil
}
