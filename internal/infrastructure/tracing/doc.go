/*
Package tracing correlates the work done for one request.

# Overview

Every HTTP request and WebSocket message gets a request ID and a span.
The request ID comes from the X-Request-ID header when the client sends a
valid UUID; otherwise a fresh UUIDv4 is generated. The ID is echoed in the
response header and stored in the request context, where the shell picks
it up for its command logs.

# Usage

	tracer := tracing.New("vshell", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "ws.input")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
	span.SetTag("session_id", id)

Completed spans are buffered (1000) and written to the logger at debug
level by a single collector goroutine; spans that carry an error are
written at warn. When the buffer is full spans are dropped.
*/
package tracing
