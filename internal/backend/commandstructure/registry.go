package commandstructure

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultRegistry holds every command compiled into the binary
var DefaultRegistry = NewCommandRegistry()

// CommandRegistry maps config names to factories. It is read from request goroutines.
type CommandRegistry struct {
	mu        sync.RWMutex
	factories map[string]CommandFactory
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{factories: map[string]CommandFactory{}}
}

func (r *CommandRegistry) Register(name string, factory CommandFactory) error {
	switch {
	case name == "":
		return errors.New("command name cannot be empty")
	case factory == nil:
		return fmt.Errorf("command %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.factories[name]; taken {
		return fmt.Errorf("command %s is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *CommandRegistry) Create(name string, params map[string]any) (Command, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}

	command, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for %s: %w", name, err)
	}
	return command, nil
}

func (r *CommandRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// GetRegisteredNames is sorted so error messages listing the names are stable
func (r *CommandRegistry) GetRegisteredNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}
