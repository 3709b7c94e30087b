package binding

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/confmgrlabs/goadapter/internal/logger"
)

// ErrBindingNotFound is returned when no binding resolves for a type name.
type ErrBindingNotFound struct {
	Type string
}

func (e ErrBindingNotFound) Error() string {
	return fmt.Sprintf("resource type '%s' has no registered binding\nHint: ensure the binding is registered before usage", e.Type)
}

// Registry maps resource type names to bindings. Lookup falls back to a
// case-insensitive match so orchestrator-supplied casing variants resolve.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	metadata map[string]Metadata
	logger   *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		bindings: make(map[string]Binding),
		metadata: make(map[string]Metadata),
		logger:   log,
	}
}

// Register adds a binding under its metadata type name.
func (r *Registry) Register(b Binding) error {
	if b == nil {
		return fmt.Errorf("binding is nil")
	}

	meta := b.BindingMetadata()
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[meta.Type]; exists {
		return fmt.Errorf("binding '%s' already registered", meta.Type)
	}

	r.bindings[meta.Type] = b
	r.metadata[meta.Type] = meta

	if r.logger != nil {
		r.logger.WithFields(map[string]any{"resourceType": meta.Type, "version": meta.Version}).Debug("registered binding")
	}
	return nil
}

// Get retrieves a binding by resource type name.
func (r *Registry) Get(resourceType string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.bindings[resourceType]; ok {
		return b, nil
	}

	lowered := strings.ToLower(resourceType)
	for name, b := range r.bindings {
		if strings.ToLower(name) == lowered {
			return b, nil
		}
	}

	return nil, ErrBindingNotFound{Type: resourceType}
}

// List returns the registered type names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset clears all registrations (for tests).
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[string]Binding)
	r.metadata = make(map[string]Metadata)
}
