package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// ErrFormNotFound is returned by Get for unknown form names.
var ErrFormNotFound = errors.New("form: definition not found")

// Definition names a schema and binds it to the worksheet its rows go to.
type Definition struct {
	Name      string
	Title     string
	Worksheet string
	// Success is shown after a row is appended.
	Success string
	Schema  model.FormSchema
}

// DefaultSuccess is the confirmation used when a definition has none.
const DefaultSuccess = "Data added successfully!"

// SuccessMessage returns Success, falling back to DefaultSuccess.
func (d Definition) SuccessMessage() string {
	if strings.TrimSpace(d.Success) != "" {
		return d.Success
	}
	return DefaultSuccess
}

// DisplayTitle returns Title, falling back to Name.
func (d Definition) DisplayTitle() string {
	if strings.TrimSpace(d.Title) != "" {
		return d.Title
	}
	return d.Name
}

// Registry stores form definitions by name, keeping registration order for
// display while also offering a sorted listing.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]Definition
	order []string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]Definition),
	}
}

// Register adds a definition. Duplicate or empty names return an error.
func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("form: definition name is required")
	}
	if strings.TrimSpace(def.Worksheet) == "" {
		return fmt.Errorf("form: definition %q requires a worksheet", name)
	}
	def.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[name]; exists {
		return fmt.Errorf("form: definition %q already registered", name)
	}
	r.forms[name] = def
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.forms[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrFormNotFound, name)
	}
	return def, nil
}

// Has reports whether a definition is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forms[name]
	return ok
}

// List returns a sorted list of definition names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.forms[name])
	}
	return out
}
