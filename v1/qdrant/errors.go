package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OperationError describes a failed Qdrant call. StatusCode carries the HTTP
// equivalent of the gRPC status so callers can classify it alongside errors
// from HTTP based providers.
type OperationError struct {
	Operation  string
	Code       codes.Code
	StatusCode int
	Message    string
	Cause      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("[Qdrant] %s failed (code=%s, status=%d): %s", e.Operation, e.Code, e.StatusCode, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP equivalent status code.
func (e *OperationError) HTTPStatus() int {
	return e.StatusCode
}

// Temporary reports whether the server signalled a transient condition.
func (e *OperationError) Temporary() bool {
	switch e.Code {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return true
	}
	return false
}

// classify converts an error returned by the gRPC client into *OperationError.
func classify(operation string, err error) error {
	if err == nil {
		return nil
	}

	code := codes.Unknown
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		code = st.Code()
		msg = st.Message()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		code = codes.DeadlineExceeded
	}

	return &OperationError{
		Operation:  operation,
		Code:       code,
		StatusCode: httpStatusFromCode(code),
		Message:    msg,
		Cause:      err,
	}
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Internal, codes.DataLoss:
		return http.StatusInternalServerError
	case codes.Unimplemented:
		return http.StatusNotImplemented
	}
	return 0
}
