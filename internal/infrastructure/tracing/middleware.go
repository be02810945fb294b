package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ginRequestIDKey exposes the request ID to handlers through gin.Context.
const ginRequestIDKey = "request_id"

// HTTPMiddleware assigns a request ID and records a span per request
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := ParseRequestID(c.GetHeader(RequestIDHeader))
		ctx := WithRequestID(c.Request.Context(), requestID)

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ctx)
		c.Set(ginRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		span.SetStatus(c.Writer.Status())
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}

// GinRequestID returns the request ID assigned by HTTPMiddleware
func GinRequestID(c *gin.Context) string {
	return c.GetString(ginRequestIDKey)
}
