package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Args is the raw JSON object of named command arguments
type Args json.RawMessage

// NewArgs encodes a value (usually a map or struct) as command arguments
func NewArgs(v interface{}) (Args, error) {
	if v == nil {
		return nil, nil
	}
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Args(data), nil
}

// MustArgs is NewArgs for literal arguments known to encode
func MustArgs(v interface{}) Args {
	args, err := NewArgs(v)
	if err != nil {
		panic(err)
	}
	return args
}

// IsEmpty reports whether no arguments were supplied
func (a Args) IsEmpty() bool {
	trimmed := bytes.TrimSpace(a)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Bind decodes the arguments into v
func (a Args) Bind(v interface{}) error {
	if a.IsEmpty() {
		return sonic.ConfigStd.Unmarshal([]byte("{}"), v)
	}
	return sonic.ConfigStd.Unmarshal(a, v)
}

// BindArgs decodes arguments for a command, tagging failures as invalid arguments
func BindArgs(command string, args Args, v interface{}) error {
	if err := args.Bind(v); err != nil {
		return fmt.Errorf("%w for command `%s`: %v", ErrInvalidArgs, command, err)
	}
	return nil
}

func (a Args) fields() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if a.IsEmpty() {
		return fields, nil
	}
	if err := sonic.ConfigStd.Unmarshal(a, &fields); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %v", err)
	}
	return fields, nil
}

// validateArgs checks that the arguments form an object carrying every required key
func validateArgs(def types.Command, args Args) error {
	fields, err := args.fields()
	if err != nil {
		return fmt.Errorf("%w for command `%s`: %v", ErrInvalidArgs, def.Name, err)
	}

	for _, param := range def.Parameters {
		if !param.Required {
			continue
		}
		raw, ok := fields[param.Name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w `%s` for command `%s`: command %s missing required key %s",
				ErrInvalidArgs, param.Name, def.Name, def.Name, param.Name)
		}
	}
	return nil
}
