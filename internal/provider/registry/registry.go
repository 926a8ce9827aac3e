package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/davidbz/glimpse/internal/domain"
)

// Factory builds a provider for one API key. It must be cheap: callers build
// a new provider whenever the vendor or key selection changes.
type Factory func(apiKey string, resolver domain.ModelResolver) domain.VendorProvider

type entry struct {
	factory  Factory
	resolver domain.ModelResolver
}

// Registry implements the ProviderRegistry interface.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.VendorID]entry
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		entries: make(map[domain.VendorID]entry),
	}
}

// Register adds a vendor with its model resolver and provider factory.
func (r *Registry) Register(_ context.Context, resolver domain.ModelResolver, factory Factory) error {
	if resolver == nil {
		return errors.New("resolver cannot be nil")
	}

	if factory == nil {
		return errors.New("factory cannot be nil")
	}

	vendor := resolver.Vendor()
	if vendor == "" {
		return errors.New("vendor cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[vendor]; exists {
		return fmt.Errorf("vendor %s already registered", vendor)
	}

	r.entries[vendor] = entry{factory: factory, resolver: resolver}

	return nil
}

// Create builds a provider for vendor bound to apiKey.
func (r *Registry) Create(ctx context.Context, vendor domain.VendorID, apiKey string) (domain.VendorProvider, error) {
	e, err := r.lookup(ctx, vendor)
	if err != nil {
		return nil, err
	}

	return e.factory(apiKey, e.resolver), nil
}

// Resolver returns the model resolver of vendor.
func (r *Registry) Resolver(ctx context.Context, vendor domain.VendorID) (domain.ModelResolver, error) {
	e, err := r.lookup(ctx, vendor)
	if err != nil {
		return nil, err
	}

	return e.resolver, nil
}

// List returns registered vendors, known vendors first in display order.
func (r *Registry) List(_ context.Context) []domain.VendorID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendors := make([]domain.VendorID, 0, len(r.entries))
	for _, id := range domain.VendorIDs() {
		if _, ok := r.entries[id]; ok {
			vendors = append(vendors, id)
		}
	}

	var extra []domain.VendorID
	for id := range r.entries {
		if !domain.IsVendorID(string(id)) {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)

	return append(vendors, extra...)
}

func (r *Registry) lookup(_ context.Context, vendor domain.VendorID) (entry, error) {
	if vendor == "" {
		return entry{}, errors.New("vendor cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[vendor]
	if !exists {
		return entry{}, fmt.Errorf("%w: %s", domain.ErrUnknownVendor, vendor)
	}

	return e, nil
}
