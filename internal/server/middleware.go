package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maxviazov/poster-api/internal/apperror"
	"github.com/maxviazov/poster-api/pkg/response"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
)

// RequestID returns the id assigned to the current request.
func RequestID(c *gin.Context) string { return c.GetString(requestIDKey) }

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// requestLogger puts a request-scoped logger on the request context (see zerolog.Ctx)
// and writes one line per request once the response is final.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := log.With().Str("request_id", RequestID(c)).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// errorHandler answers with the last error attached to the context, unless the
// handler already wrote a response. Internal errors are logged with their trace.
func errorHandler(log zerolog.Logger, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err

		if response.IsInternal(err) {
			l := zerolog.Ctx(c.Request.Context())
			if l.GetLevel() == zerolog.Disabled {
				l = &log
			}
			l.Error().Err(err).Str("trace", apperror.Trace(err)).Msg("unhandled error")
		}

		if c.Writer.Written() {
			return
		}
		response.WriteError(c, err, debug)
	}
}

// recovery turns a panic into an error for errorHandler. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			_ = c.Error(apperror.WithStack(err))
			c.Abort()
		}()
		c.Next()
	}
}

func notFound(c *gin.Context) {
	_ = c.Error(apperror.NotFound("Route %s:%s not found", c.Request.Method, c.Request.URL.Path))
}

func methodNotAllowed(c *gin.Context) {
	_ = c.Error(apperror.Newf(http.StatusMethodNotAllowed, "Method %s not allowed on %s", c.Request.Method, c.Request.URL.Path))
}
