package strategy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind is the construction policy a strategy declares at registration.
type Kind int

const (
	// Singleton strategies expose a shared instance.
	Singleton Kind = iota + 1

	// BareConstructor strategies are built by a no-argument constructor.
	BareConstructor

	// ConfigFactory strategies are built from a Configuration.
	ConfigFactory
)

// fallbackOrder is the order in which zero-arg construction tries the
// entrypoints after the declared kind.
var fallbackOrder = []Kind{Singleton, BareConstructor, ConfigFactory}

func (k Kind) String() string {
	switch k {
	case Singleton:
		return "singleton"
	case BareConstructor:
		return "bare_constructor"
	case ConfigFactory:
		return "config_factory"
	}
	return "unknown"
}

// Strategy is a constructed traversal strategy.
type Strategy interface {
	// Name returns the registered strategy name.
	Name() string

	// Configuration returns the strategy's effective configuration. It is
	// empty for strategies that take none.
	Configuration() *Configuration
}

// Entry describes one registered strategy. The entrypoint matching Kind
// must be set; the others are optional alternatives tried on zero-arg
// construction.
type Entry struct {
	Name string
	Kind Kind

	Instance func() (Strategy, error)
	New      func() (Strategy, error)
	Create   func(*Configuration) (Strategy, error)

	// Description is a one-line summary shown by the CLI.
	Description string

	// Keys lists the configuration keys the factory understands. Empty means
	// the factory accepts any key.
	Keys []string
}

// Has reports whether the entry provides the entrypoint for kind.
func (e Entry) Has(kind Kind) bool {
	switch kind {
	case Singleton:
		return e.Instance != nil
	case BareConstructor:
		return e.New != nil
	case ConfigFactory:
		return e.Create != nil
	}
	return false
}

// Kinds returns the construction kinds the entry supports in fallback order.
func (e Entry) Kinds() []Kind {
	var kinds []Kind
	for _, k := range fallbackOrder {
		if e.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEntry)
	}
	if strings.Contains(e.Name, ".") {
		return fmt.Errorf("%w: %q must be a simple name", ErrInvalidEntry, e.Name)
	}
	if !e.Has(e.Kind) {
		return fmt.Errorf("%w: %q declares %s without its entrypoint", ErrInvalidEntry, e.Name, e.Kind)
	}
	return nil
}

// Registry maps strategy names to their construction policy. It is filled
// once at startup and sealed; afterwards it is read-only and safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	sealed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry.
func (r *Registry) Register(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, e.Name)
	}
	if _, exists := r.entries[e.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStrategy, e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

// Unregister removes an entry before the registry is sealed. Removing an
// unknown name is a no-op.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot unregister %q", ErrRegistrySealed, name)
	}
	delete(r.entries, name)
	return nil
}

// Lookup finds an entry by exact name, then by the simple name after the
// last dot so that fully qualified class names resolve.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		e, ok := r.entries[name[i+1:]]
		return e, ok
	}
	return Entry{}, false
}

// Names returns the registered names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// unregistered builds the lookup failure for name with a suggestion.
func (r *Registry) unregistered(name string) *UnregisteredStrategyError {
	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
	}
	return &UnregisteredStrategyError{Name: name, Suggestion: suggestName(simple, r.Names())}
}

// Check returns an UnregisteredStrategyError when name is not registered.
func (r *Registry) Check(name string) error {
	if _, ok := r.Lookup(name); ok {
		return nil
	}
	return r.unregistered(name)
}
