// Package options defines the configuration fields the zen toggler manages:
// a typed registry of known settings, a TOML loader for user overrides of
// the zen target configuration, and a file watcher for hot reload.
package options

import (
	"fmt"
	"sync"
)

// Type is the data type of a setting.
type Type uint8

const (
	// TypeBool is a boolean setting.
	TypeBool Type = iota
	// TypeInt is an integer setting.
	TypeInt
	// TypeString is a string setting.
	TypeString
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Scope defines where a setting applies.
type Scope uint8

const (
	// ScopeGlobal applies at the editor's global scope.
	ScopeGlobal Scope = 1 << iota
	// ScopeView applies per open view.
	ScopeView
)

// HasScope reports whether s includes scope.
func (s Scope) HasScope(scope Scope) bool {
	return s&scope != 0
}

// Setting describes one configuration field.
type Setting struct {
	// Name is the option name as the host knows it (e.g. "number").
	Name string

	// Type is the setting's data type.
	Type Type

	// Default is the host's default value for the field.
	Default any

	// Target is the value zen mode applies.
	Target any

	// Description is human-readable documentation.
	Description string

	// Scope defines where the setting applies.
	Scope Scope
}

// Validate checks that a value matches the setting's type.
func (s *Setting) Validate(value any) error {
	switch s.Type {
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", s.Name, value)
		}
	case TypeInt:
		switch value.(type) {
		case int, int64:
			// Valid
		default:
			return fmt.Errorf("%s: expected integer, got %T", s.Name, value)
		}
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", s.Name, value)
		}
	}
	return nil
}

// Registry holds the known settings.
type Registry struct {
	mu       sync.RWMutex
	settings map[string]*Setting
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{settings: make(map[string]*Setting)}
}

// Register adds a setting definition. Duplicate names fail.
func (r *Registry) Register(s Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Name == "" {
		return fmt.Errorf("setting name is required")
	}
	if _, exists := r.settings[s.Name]; exists {
		return fmt.Errorf("setting %s already registered", s.Name)
	}
	if s.Target != nil {
		if err := s.Validate(s.Target); err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
	}

	copied := s
	r.settings[s.Name] = &copied
	r.order = append(r.order, s.Name)
	return nil
}

// MustRegister adds a setting definition, panicking on error.
// Intended for static field-set construction at startup.
func (r *Registry) MustRegister(s Setting) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Get returns the setting definition for name, or nil.
func (r *Registry) Get(name string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.settings[name]
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.settings[name]
	return ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ScopedNames returns the names of settings that include scope.
func (r *Registry) ScopedNames(scope Scope) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range r.order {
		if r.settings[name].Scope.HasScope(scope) {
			out = append(out, name)
		}
	}
	return out
}

// Targets returns the zen target value for every registered setting.
func (r *Registry) Targets() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.settings))
	for name, s := range r.settings {
		out[name] = s.Target
	}
	return out
}

// SetTarget overrides the target value for a registered setting.
func (r *Registry) SetTarget(name string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[name]
	if !ok {
		return fmt.Errorf("setting %s not registered", name)
	}
	if err := s.Validate(value); err != nil {
		return err
	}
	s.Target = value
	return nil
}
