package client

import (
	"fmt"
	"io/fs"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// CommandError is a failure reported by the bridge for one command.
// Message is the host error text, passed through unchanged.
type CommandError struct {
	Command string
	Message string
	Kind    types.ErrorKind
	Status  int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Is lets callers match bridge failures against io/fs sentinels
func (e *CommandError) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Kind == types.KindNotFound
	case fs.ErrPermission:
		return e.Kind == types.KindPermissionDenied
	case fs.ErrExist:
		return e.Kind == types.KindAlreadyExists
	}
	return false
}
