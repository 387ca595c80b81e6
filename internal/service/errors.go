package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/autorug/internal/auth"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/middleware"
	"github.com/mmynk/autorug/internal/wizard"
)

// toConnectError maps a domain error to the Connect code clients act on.
// Internal errors keep a generic message so storage details do not leak.
func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, errs.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrUsernameTaken):
		code = connect.CodeAlreadyExists
	case errors.Is(err, errs.ErrAuth):
		code = connect.CodeUnauthenticated
	case errors.Is(err, errs.ErrPending), errors.Is(err, wizard.ErrClosed):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, errs.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}

// requireUser returns the authenticated user ID or an unauthenticated error.
func requireUser(ctx context.Context) (string, error) {
	if id := middleware.GetUserID(ctx); id != "" {
		return id, nil
	}
	return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
}
