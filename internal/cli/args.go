package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// parseArgs turns repeated key=value flags into a command argument object.
// Values stay strings; a repeated key keeps the last value.
func parseArgs(pairs []string) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}

// attachData reads path into args["data"] as a byte buffer
func attachData(args map[string]interface{}, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read --data-file: %w", err)
	}
	args["data"] = types.Bytes(data)
	return nil
}
