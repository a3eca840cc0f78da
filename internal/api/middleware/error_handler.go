package middleware

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/pkg/logger"
)

// Problem is the error envelope every failed request serializes to.
type Problem struct {
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Detail        string `json:"detail,omitempty"`
	CorrelationID string `json:"correlation_id"`
}

// ErrorHandler captures errors added via c.Error() and writes the problem
// envelope. Internal causes are logged with the correlation id and never
// leak to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		WriteError(c, err)
	}
}

// WriteError serializes any error as a problem envelope. Deadline expiry
// maps to 504 regardless of where it surfaced.
func WriteError(c *gin.Context, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) {
		err = apperrors.GatewayTimeout()
	}

	rid := GetRequestID(c.Request.Context())

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("correlation_id", rid),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		logger.Debug("Request rejected",
			zap.String("correlation_id", rid),
			zap.Int("status", status),
			zap.String("detail", appErr.Detail),
		)
	}

	c.AbortWithStatusJSON(status, Problem{
		Title:         appErr.Kind.Title(),
		Status:        status,
		Detail:        clientDetail(appErr),
		CorrelationID: rid,
	})
}

// clientDetail hides internal causes; other kinds carry safe details.
func clientDetail(err *apperrors.AppError) string {
	if err.Kind == apperrors.KindInternal {
		return ""
	}
	return err.Detail
}
