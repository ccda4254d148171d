package service

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/rollbook/internal/state"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/internal/transcode"
)

var validate = validator.New()

// validateRequest checks the validate struct tags of a request message.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, len(ve))
		for i, fe := range ve {
			fields[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		}
		return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(fields, "; ")))
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, tracker.ErrInvalidArgument),
		errors.Is(err, transcode.ErrBadHeader),
		errors.Is(err, transcode.ErrNoGroups):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, state.ErrGroupNotFound),
		errors.Is(err, state.ErrMemberNotFound),
		errors.Is(err, state.ErrActivityNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, state.ErrGroupExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
