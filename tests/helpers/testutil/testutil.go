// Package testutil provides testing utilities shared by package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// WriteTree creates files under root. Keys ending in "/" become directories,
// other keys become files holding the mapped content.
func WriteTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// TempTree creates a temporary directory populated by WriteTree
func TempTree(t *testing.T, tree map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, tree)
	return root
}

// NewRegistry returns a registry with the filesystem provider registered
func NewRegistry(t *testing.T, opts filesystem.Options) *dispatch.Registry {
	t.Helper()
	registry := dispatch.NewRegistry()
	require.NoError(t, registry.Register(filesystem.NewProvider(opts)))
	return registry
}

// Invoke runs a command with map arguments and fails the test on encoding errors
func Invoke(t *testing.T, registry *dispatch.Registry, command string, args map[string]interface{}) (interface{}, error) {
	t.Helper()
	raw, err := dispatch.NewArgs(args)
	require.NoError(t, err)
	return registry.Invoke(context.Background(), command, raw)
}

// MockProvider is a mock implementation of dispatch.Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockProvider) Definition() types.Service {
	args := m.Called()
	return args.Get(0).(types.Service)
}

// Handlers mocks the Handlers method.
func (m *MockProvider) Handlers() map[string]dispatch.HandlerFunc {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]dispatch.HandlerFunc)
}

// NewMockProvider creates a mock provider serving a single command
func NewMockProvider(serviceID, command string, handler dispatch.HandlerFunc, params ...types.Parameter) *MockProvider {
	m := new(MockProvider)
	if params == nil {
		params = []types.Parameter{}
	}
	m.On("Definition").Return(types.Service{
		ID:       serviceID,
		Name:     serviceID,
		Category: types.CategorySystem,
		Commands: []types.Command{
			{Name: command, Parameters: params, Returns: "object"},
		},
	})
	m.On("Handlers").Return(map[string]dispatch.HandlerFunc{command: handler})
	return m
}
