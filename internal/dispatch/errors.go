package dispatch

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid args")
)

// Classify maps an invocation error onto an advisory error kind
func Classify(err error) types.ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCommand):
		return types.KindUnknownCommand
	case errors.Is(err, ErrInvalidArgs):
		return types.KindInvalidArgs
	case errors.Is(err, fs.ErrNotExist):
		return types.KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return types.KindPermissionDenied
	case errors.Is(err, fs.ErrExist):
		return types.KindAlreadyExists
	case errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR):
		return types.KindInvalidKind
	default:
		return types.KindIO
	}
}

// Respond builds the wire response for an invocation outcome
func Respond(id string, result interface{}, err error) types.Response {
	if err != nil {
		msg := err.Error()
		return types.Response{
			ID:      id,
			Success: false,
			Error:   &msg,
			Kind:    Classify(err),
		}
	}
	return types.Response{ID: id, Success: true, Data: result}
}
