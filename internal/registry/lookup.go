package registry

import (
	"context"
	"errors"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// Lookup resolves machine and material identifiers within an organization scope.
// Implementations return a *carbon.NotFoundError for unknown or foreign ids.
type Lookup interface {
	Machine(ctx context.Context, scope, id string) (carbon.MachineProfile, error)
	Material(ctx context.Context, scope, id string) (carbon.MaterialProfile, error)
}

// Chain tries each Lookup in order and returns the first hit.
// A not-found result moves on to the next lookup; any other error stops the chain.
type Chain []Lookup

// Machine implements Lookup.
func (c Chain) Machine(ctx context.Context, scope, id string) (carbon.MachineProfile, error) {
	for _, l := range c {
		m, err := l.Machine(ctx, scope, id)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, carbon.ErrNotFound) {
			return carbon.MachineProfile{}, err
		}
	}
	return carbon.MachineProfile{}, &carbon.NotFoundError{Kind: carbon.KindMachine, ID: id}
}

// Material implements Lookup.
func (c Chain) Material(ctx context.Context, scope, id string) (carbon.MaterialProfile, error) {
	for _, l := range c {
		m, err := l.Material(ctx, scope, id)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, carbon.ErrNotFound) {
			return carbon.MaterialProfile{}, err
		}
	}
	return carbon.MaterialProfile{}, &carbon.NotFoundError{Kind: carbon.KindMaterial, ID: id}
}

// Scoped resolves custom profiles owned by a scope from the backing stores.
type Scoped struct {
	Machines  MachineStore
	Materials MaterialStore
}

// Machine implements Lookup.
func (s Scoped) Machine(ctx context.Context, scope, id string) (carbon.MachineProfile, error) {
	if scope == "" {
		return carbon.MachineProfile{}, &carbon.NotFoundError{Kind: carbon.KindMachine, ID: id}
	}
	m, err := s.Machines.Get(ctx, scope, id)
	if errors.Is(err, ErrNoRecord) {
		return carbon.MachineProfile{}, &carbon.NotFoundError{Kind: carbon.KindMachine, ID: id}
	}
	return m, err
}

// Material implements Lookup.
func (s Scoped) Material(ctx context.Context, scope, id string) (carbon.MaterialProfile, error) {
	if scope == "" {
		return carbon.MaterialProfile{}, &carbon.NotFoundError{Kind: carbon.KindMaterial, ID: id}
	}
	m, err := s.Materials.Get(ctx, scope, id)
	if errors.Is(err, ErrNoRecord) {
		return carbon.MaterialProfile{}, &carbon.NotFoundError{Kind: carbon.KindMaterial, ID: id}
	}
	return m, err
}
