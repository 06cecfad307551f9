package aws

import (
	"context"
	"sync"
)

// Enumerator lists one kind of resource within a single scope
type Enumerator interface {
	// Name returns the routine identifier, e.g. "ec2-instances"
	Name() string

	// Label returns the human-readable banner text
	Label() string

	// Headers returns the column names of the rows produced by List
	Headers() []string

	// List performs the enumeration. Provider faults are returned as a
	// failed Result, never as an error.
	List(ctx context.Context) Result
}

// Constructor binds an enumerator to clients for one scope
type Constructor func(c *Clients) Enumerator

// Registry maps service tags to their ordered enumeration routines
type Registry struct {
	mu       sync.RWMutex
	routines map[Service][]Constructor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		routines: make(map[Service][]Constructor),
	}
}

// Register appends routines to a service. The call order is the run order.
func (r *Registry) Register(service Service, ctors ...Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[service] = append(r.routines[service], ctors...)
}

// Routines returns the constructors registered for service, in order
func (r *Registry) Routines(service Service) []Constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctors := r.routines[service]
	out := make([]Constructor, len(ctors))
	copy(out, ctors)
	return out
}

// Services returns every service with at least one routine, in declaration order
func (r *Registry) Services() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Service
	for _, s := range AllServices() {
		if len(r.routines[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Lookup resolves a service name to a registered service
func (r *Registry) Lookup(name string) (Service, bool) {
	s, ok := ParseService(name)
	if !ok {
		return ServiceUnknown, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.routines[s]) == 0 {
		return ServiceUnknown, false
	}
	return s, true
}
