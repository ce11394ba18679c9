package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// HandlerFunc executes one command with its raw arguments
type HandlerFunc func(ctx context.Context, args Args) (interface{}, error)

// Provider interface for command sets registered with the dispatcher
type Provider interface {
	Definition() types.Service
	Handlers() map[string]HandlerFunc
}

type entry struct {
	service string
	def     types.Command
	handler HandlerFunc
}

// Registry routes named commands to their handlers
type Registry struct {
	mu       sync.RWMutex
	services map[string]types.Service
	commands map[string]entry

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]types.Service),
		commands: make(map[string]entry),
		logger:   logging.NewNop(),
	}
}

// WithLogger sets the logger used for invocation traces
func (r *Registry) WithLogger(logger *logging.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithMetrics enables command metrics
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// Register adds every command of a provider. Registration is all-or-nothing.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	handlers := provider.Handlers()
	if len(handlers) != len(def.Commands) {
		return fmt.Errorf("service %s: %d commands defined but %d handlers provided", def.ID, len(def.Commands), len(handlers))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[def.ID]; exists {
		return fmt.Errorf("service already registered: %s", def.ID)
	}

	pending := make(map[string]entry, len(def.Commands))
	for _, cmd := range def.Commands {
		if cmd.Name == "" {
			return fmt.Errorf("service %s: command name cannot be empty", def.ID)
		}
		handler, ok := handlers[cmd.Name]
		if !ok || handler == nil {
			return fmt.Errorf("service %s: no handler for command %s", def.ID, cmd.Name)
		}
		if _, exists := r.commands[cmd.Name]; exists {
			return fmt.Errorf("command already registered: %s", cmd.Name)
		}
		if _, exists := pending[cmd.Name]; exists {
			return fmt.Errorf("service %s: duplicate command %s", def.ID, cmd.Name)
		}
		pending[cmd.Name] = entry{service: def.ID, def: cmd, handler: handler}
	}

	for name, e := range pending {
		r.commands[name] = e
	}
	r.services[def.ID] = def
	return nil
}

// Unregister removes a service and its commands
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.services[serviceID]
	if !ok {
		return
	}
	for _, cmd := range def.Commands {
		delete(r.commands, cmd.Name)
	}
	delete(r.services, serviceID)
}

// Command returns the definition of a registered command
func (r *Registry) Command(name string) (types.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.commands[name]
	return e.def, ok
}

// Commands returns all registered command names, sorted
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns registered services, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]types.Service, 0, len(r.services))
	for _, def := range r.services {
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Invoke runs a command by name. The handler executes on the caller's goroutine.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (interface{}, error) {
	r.mu.RLock()
	e, ok := r.commands[name]
	r.mu.RUnlock()

	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		r.record(monitoring.NewTimer(r.metrics, "unknown"), "unknown", "", err)
		return nil, err
	}

	timer := monitoring.NewTimer(r.metrics, name)
	if err := validateArgs(e.def, args); err != nil {
		r.record(timer, name, e.service, err)
		return nil, err
	}

	result, err := e.handler(ctx, args)
	r.record(timer, name, e.service, err)
	return result, err
}

// Stats returns registry statistics
func (r *Registry) Stats() types.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make(map[string]int)
	for _, def := range r.services {
		categories[string(def.Category)]++
	}

	return types.Stats{
		TotalServices: len(r.services),
		TotalCommands: len(r.commands),
		Categories:    categories,
	}
}

func (r *Registry) record(timer *monitoring.Timer, command, service string, err error) {
	status := "success"
	var kind types.ErrorKind
	if err != nil {
		status = "error"
		kind = Classify(err)
	}

	duration := timer.Stop(status)
	if err != nil && r.metrics != nil {
		r.metrics.RecordCommandError(command, string(kind))
	}

	if err != nil {
		r.logger.Debug("command failed",
			zap.String("command", command),
			zap.String("service", service),
			zap.Duration("duration", duration),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("command completed",
		zap.String("command", command),
		zap.String("service", service),
		zap.Duration("duration", duration),
	)
}
