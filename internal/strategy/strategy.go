// Package strategy defines the Strategy contract for backtestable trading
// strategies and provides a Registry mapping strategy names to factories.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"osquant/internal/domain"
)

// Strategy is the decision contract evaluated once per bar. Implementations
// must be deterministic given their closed-over parameters and stateless
// from bar to bar: Evaluate is a pure function of the price history, the
// current index, and the current position (nil when flat).
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Params returns the effective parameter set the strategy runs with.
	Params() Params

	// Evaluate returns the signal for the bar at index. pos is the currently
	// open position, or nil when flat.
	Evaluate(prices []float64, index int, pos *domain.Position) domain.Signal
}

// Initializer is an optional hook a Strategy may implement to precompute
// run-scoped caches before the first bar. Implementations must not retain
// mutable state across separate runs of the same instance; the engine calls
// Init exactly once per run.
type Initializer interface {
	Init(prices []float64)
}

// Params is a flat mapping of numeric strategy parameters, fixed for the
// life of one run.
type Params map[string]float64

// Get returns the value for key, or def when the key is absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Merge returns a copy of p with the override values applied on top.
func (p Params) Merge(overrides Params) Params {
	merged := make(Params, len(p)+len(overrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Factory constructs a fresh Strategy instance from a parameter set, so
// concurrent or repeated runs never share state.
type Factory func(params Params) Strategy

// Registry holds a named collection of strategy factories. It is built once
// at startup and treated as read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the normalized form of name. Intended for
// registry construction; the registry must not be mutated once in use.
func (r *Registry) Register(name string, f Factory) {
	r.factories[Normalize(name)] = f
}

// New resolves name in the registry and constructs a fresh instance with the
// given parameter overrides. Returns an UnknownStrategyError listing the
// available keys when the name does not match.
func (r *Registry) New(name string, overrides Params) (Strategy, error) {
	f, ok := r.factories[Normalize(name)]
	if !ok {
		return nil, &UnknownStrategyError{Name: name, Available: r.List()}
	}
	return f(overrides), nil
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize maps a user-facing strategy name to its registry key: lowercase
// with spaces and hyphens folded to underscores.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// UnknownStrategyError reports a strategy name that matched nothing in the
// registry. The message enumerates the available keys.
type UnknownStrategyError struct {
	Name      string
	Available []string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
