/*
Package tracing provides lightweight request tracing.

# Overview

Each HTTP request and gRPC call gets a span with a trace id that is either
continued from the caller (X-Trace-ID / X-Span-ID headers or x-trace-id
metadata) or freshly generated. Finished spans are logged by a background
collector.

# Usage

	tracer := tracing.New("fsbridge", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	server := grpc.NewServer(
		grpc.UnaryInterceptor(tracing.GRPCUnaryInterceptor(tracer)),
	)

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Performance

- Buffered span collection (1000 spans), dropped when full
- Async span processing
*/
package tracing
