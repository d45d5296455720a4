package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/moneymaster-backend/internal/log"
)

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// The token may be sent bare or with a "Bearer " prefix.
// If the token is missing or invalid, it returns status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if strings.TrimPrefix(authHeaders[0], "Bearer ") != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor logs every unary call with its status code and duration.
// Client errors are logged at warn level, server errors at error level.
func LoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	logger = log.OrDiscard(logger).WithComponent(log.ComponentGRPC)

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		args := []any{
			log.FieldMethod, info.FullMethod,
			log.FieldCode, code.String(),
			log.FieldDuration, time.Since(start).Milliseconds(),
		}
		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "rpc completed", args...)
		case codes.InvalidArgument, codes.NotFound, codes.Unauthenticated:
			logger.WarnContext(ctx, "rpc rejected", append(args, log.FieldError, err.Error())...)
		default:
			logger.ErrorContext(ctx, "rpc failed", append(args, log.FieldError, err.Error())...)
		}
		return resp, err
	}
}
