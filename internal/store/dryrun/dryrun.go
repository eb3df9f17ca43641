// Package dryrun provides an in-memory Registry used when no array is
// reachable and as the simulated backend in tests.
package dryrun

import (
	"context"
	"sync"

	"github.com/zabuzafr/lparsync/internal/model"
)

// Registry is a simulated host registry. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	hosts map[string][]string
}

func New() *Registry {
	return &Registry{hosts: map[string][]string{}}
}

// Seed installs a host with the given ports, for tests.
func (r *Registry) Seed(name string, wwpns ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hosts[name] = append([]string{}, wwpns...)
}

func (r *Registry) GetHost(_ context.Context, name string) (*model.HostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wwpns, ok := r.hosts[name]
	if !ok {
		return nil, model.ErrHostNotFound
	}

	return &model.HostRecord{Name: name, WWPNs: append([]string{}, wwpns...)}, nil
}

func (r *Registry) CreateHost(_ context.Context, name string) (*model.HostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hosts[name]; !ok {
		r.hosts[name] = nil
	}

	return &model.HostRecord{Name: name}, nil
}

func (r *Registry) AddWWPNs(_ context.Context, name string, wwpns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hosts[name]; !ok {
		return model.ErrHostNotFound
	}

	r.hosts[name] = append(r.hosts[name], wwpns...)

	return nil
}

// Host returns the current port set for name, for tests.
func (r *Registry) Host(name string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wwpns, ok := r.hosts[name]

	return append([]string{}, wwpns...), ok
}
