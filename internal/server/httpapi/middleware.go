package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"

	contextPrincipalKey = "auth.principal"
	contextRequestIDKey = "request.id"
)

// PrincipalFromContext returns the principal set by RequireToken.
func PrincipalFromContext(c *gin.Context) (*services.Principal, bool) {
	v, ok := c.Get(contextPrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*services.Principal)
	return p, ok
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// access_token header used by the gRPC transport.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > len(common.BearerPrefix) && strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(h[len(common.BearerPrefix):])
	}
	return strings.TrimSpace(c.GetHeader(common.AccessTokenHeaderName))
}

// RequireToken rejects requests without a valid session token.
func RequireToken(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			msg := services.MsgTokenInvalid
			var aerr *services.AuthError
			if errors.As(err, &aerr) {
				msg = aerr.Message
			}
			fail(c, http.StatusUnauthorized, msg)
			return
		}
		c.Set(contextPrincipalKey, p)
		c.Next()
	}
}

// RequestLogger assigns a request id and logs one line per request. Bodies
// are never logged.
func RequestLogger(l logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		m.RecordRequest("http", route, strconv.Itoa(status))
		l.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
