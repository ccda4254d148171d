package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// callerCodes are failures caused by the request rather than the server.
var callerCodes = map[connect.Code]bool{
	connect.CodeInvalidArgument:  true,
	connect.CodeNotFound:         true,
	connect.CodeAlreadyExists:    true,
	connect.CodeUnauthenticated:  true,
	connect.CodeUnimplemented:    true,
	connect.CodeCanceled:         true,
	connect.CodeDeadlineExceeded: true,
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC with
// its operator, peer and duration. Caller mistakes log at Warn and server
// faults at Error. A nil logger uses slog.Default().
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"operator", GetOperator(ctx), // empty if auth is off
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.InfoContext(ctx, "RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code, "error", err)
			if callerCodes[code] {
				logger.WarnContext(ctx, "RPC rejected", attrs...)
			} else {
				logger.ErrorContext(ctx, "RPC failed", attrs...)
			}
			return resp, err
		}
	}
}
