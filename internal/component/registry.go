// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components, calls Init(env) on each, and lets every component add its
// routes to the guarded router group.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() adds page endpoints to r, e.g.:
//
//	r.Get("/login", c.getLogin)
//	r.Post("/login", c.postLogin)
//
// Components share one router group, so two components must never claim
// the same path.
type Component interface {
	Name() string
	Init(*Env) error
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A later
// registration under the same name replaces the earlier one.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so mount order is
// stable across runs.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component with env and adds its
// routes to r.
func Mount(r chi.Router, env *Env) error {
	for _, c := range All() {
		if err := c.Init(env); err != nil {
			return &InitError{Component: c.Name(), Err: err}
		}
		c.Routes(r)
		env.Log.Debugw("component mounted", "component", c.Name())
	}
	return nil
}

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string { return "component " + e.Component + ": " + e.Err.Error() }
func (e *InitError) Unwrap() error { return e.Err }
