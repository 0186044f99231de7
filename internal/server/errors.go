package server

import (
	"context"
	"errors"

	"cricket-score/internal/domain"

	"connectrpc.com/connect"
)

func codeFor(err error) connect.Code {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrNotWaiting):
		return connect.CodeFailedPrecondition
	case errors.Is(err, domain.ErrInvalidPlayer), errors.Is(err, domain.ErrInvalidInput):
		return connect.CodeInvalidArgument
	case errors.Is(err, domain.ErrLimitExceeded):
		return connect.CodeResourceExhausted
	case errors.Is(err, domain.ErrUnauthorized):
		return connect.CodeUnauthenticated
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	}
	return connect.CodeInternal
}

// toConnectError classifies err. Internal errors are not echoed to the client.
func toConnectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	code := codeFor(err)
	if code == connect.CodeInternal {
		return connect.NewError(code, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}
