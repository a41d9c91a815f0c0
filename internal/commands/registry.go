package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicateCommand is returned when a name or alias is taken.
var ErrDuplicateCommand = errors.New("command already registered")

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	primary map[string]Command
	alias   map[string]string // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		primary: make(map[string]Command),
		alias:   make(map[string]string),
	}
}

// Register adds c under its name and aliases. Nothing is added when any of
// them is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Name() == "" {
		return errors.New("command has no name")
	}
	for _, name := range append([]string{c.Name()}, c.Aliases()...) {
		if r.takenLocked(name) {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
		}
	}

	r.primary[c.Name()] = c
	for _, a := range c.Aliases() {
		r.alias[a] = c.Name()
	}
	return nil
}

func (r *Registry) takenLocked(name string) bool {
	_, p := r.primary[name]
	_, a := r.alias[name]
	return p || a
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.alias[name]; ok {
		name = primary
	}
	cmd, ok := r.primary[name]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.primary))
	for _, cmd := range r.primary {
		result = append(result, cmd)
	}
	slices.SortFunc(result, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return result
}

// DisplayName is the name followed by its aliases, as shown by help.
func DisplayName(c Command) string {
	return strings.Join(append([]string{c.Name()}, c.Aliases()...), ", ")
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
