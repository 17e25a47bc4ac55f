// Package registry maintains the machine and material profiles used by the
// calculator: an immutable built-in catalog plus custom profiles owned by
// each organization scope.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
)

const builtinReadOnly = "built-in profiles are read-only"

// Audit actions logged for every successful mutation.
const (
	ActionMachineCreate  = "custom_machine.create"
	ActionMachineUpdate  = "custom_machine.update"
	ActionMachineDelete  = "custom_machine.delete"
	ActionMaterialCreate = "custom_material.create"
	ActionMaterialUpdate = "custom_material.update"
	ActionMaterialDelete = "custom_material.delete"
)

// Registry resolves and manages profiles. Built-ins always shadow custom ids.
type Registry struct {
	catalog   *Catalog
	machines  MachineStore
	materials MaterialStore
	lookup    Chain

	logger   zerolog.Logger
	newID    func() string
	now      func() time.Time
	observer func(action string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the audit logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) { r.logger = logging.ComponentLogger(logger, "registry") }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(r *Registry) { r.now = fn }
}

// WithMutationObserver registers a callback invoked with the audit action of
// every successful mutation.
func WithMutationObserver(fn func(action string)) Option {
	return func(r *Registry) { r.observer = fn }
}

// New creates a Registry over the given catalog and stores.
func New(catalog *Catalog, machines MachineStore, materials MaterialStore, opts ...Option) *Registry {
	r := &Registry{
		catalog:   catalog,
		machines:  machines,
		materials: materials,
		logger:    zerolog.Nop(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	r.lookup = Chain{catalog, Scoped{Machines: machines, Materials: materials}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewInMemory creates a Registry over the embedded catalog and memory stores.
func NewInMemory(opts ...Option) (*Registry, error) {
	catalog, err := Builtins()
	if err != nil {
		return nil, err
	}
	return New(catalog, NewMachineMemoryStore(), NewMaterialMemoryStore(), opts...), nil
}

// NewMachineMemoryStore returns a MemoryStore keyed on machine names.
func NewMachineMemoryStore() *MemoryStore[carbon.MachineProfile] {
	return NewMemoryStore(func(m carbon.MachineProfile) string { return m.Name })
}

// NewMaterialMemoryStore returns a MemoryStore keyed on material names.
func NewMaterialMemoryStore() *MemoryStore[carbon.MaterialProfile] {
	return NewMemoryStore(func(m carbon.MaterialProfile) string { return m.Name })
}

// Catalog returns the built-in catalog.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Machine implements Lookup.
func (r *Registry) Machine(ctx context.Context, scope, id string) (carbon.MachineProfile, error) {
	return r.lookup.Machine(ctx, scope, strings.TrimSpace(id))
}

// Material implements Lookup.
func (r *Registry) Material(ctx context.Context, scope, id string) (carbon.MaterialProfile, error) {
	return r.lookup.Material(ctx, scope, strings.TrimSpace(id))
}

// ListMachines returns the built-in machines followed by the machines owned by scope
// in creation order.
func (r *Registry) ListMachines(ctx context.Context, scope string) ([]carbon.MachineProfile, error) {
	out := r.catalog.Machines()
	if scope == "" {
		return out, nil
	}
	custom, err := r.machines.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return append(out, custom...), nil
}

// ListMaterials returns the built-in materials followed by the materials owned by scope
// in creation order.
func (r *Registry) ListMaterials(ctx context.Context, scope string) ([]carbon.MaterialProfile, error) {
	out := r.catalog.Materials()
	if scope == "" {
		return out, nil
	}
	custom, err := r.materials.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return append(out, custom...), nil
}

// CreateMachine validates draft and stores it as a new machine owned by scope.
func (r *Registry) CreateMachine(ctx context.Context, scope string, draft MachineDraft) (carbon.MachineProfile, error) {
	if err := requireScope(scope); err != nil {
		return carbon.MachineProfile{}, err
	}
	p, err := draft.profile()
	if err != nil {
		return carbon.MachineProfile{}, err
	}

	now := r.now().UTC()
	p.ID = r.newID()
	p.Scope = scope
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := r.machines.Insert(ctx, scope, p); err != nil {
		return carbon.MachineProfile{}, storeError(err, carbon.KindMachine, p.ID)
	}
	r.audit(ctx, ActionMachineCreate, scope, p.ID)
	return p, nil
}

// UpdateMachine applies patch to a machine owned by scope.
func (r *Registry) UpdateMachine(ctx context.Context, scope, id string, patch MachinePatch) (carbon.MachineProfile, error) {
	id = strings.TrimSpace(id)
	if r.catalog.HasMachine(id) {
		return carbon.MachineProfile{}, &carbon.ForbiddenError{Kind: carbon.KindMachine, ID: id, Reason: builtinReadOnly}
	}
	current, err := r.machines.Get(ctx, scope, id)
	if err != nil {
		return carbon.MachineProfile{}, storeError(err, carbon.KindMachine, id)
	}

	updated, err := patch.apply(current)
	if err != nil {
		return carbon.MachineProfile{}, err
	}
	updated.UpdatedAt = r.now().UTC()

	if err := r.machines.Update(ctx, scope, updated); err != nil {
		return carbon.MachineProfile{}, storeError(err, carbon.KindMachine, id)
	}
	r.audit(ctx, ActionMachineUpdate, scope, id)
	return updated, nil
}

// DeleteMachine removes a machine owned by scope. Built-ins cannot be deleted.
func (r *Registry) DeleteMachine(ctx context.Context, scope, id string) error {
	id = strings.TrimSpace(id)
	if r.catalog.HasMachine(id) {
		return &carbon.ForbiddenError{Kind: carbon.KindMachine, ID: id, Reason: builtinReadOnly}
	}
	if scope == "" {
		return &carbon.NotFoundError{Kind: carbon.KindMachine, ID: id}
	}
	if err := r.machines.Delete(ctx, scope, id); err != nil {
		return storeError(err, carbon.KindMachine, id)
	}
	r.audit(ctx, ActionMachineDelete, scope, id)
	return nil
}

// CreateMaterial validates draft and stores it as a new material owned by scope.
func (r *Registry) CreateMaterial(ctx context.Context, scope string, draft MaterialDraft) (carbon.MaterialProfile, error) {
	if err := requireScope(scope); err != nil {
		return carbon.MaterialProfile{}, err
	}
	p, err := draft.profile()
	if err != nil {
		return carbon.MaterialProfile{}, err
	}

	now := r.now().UTC()
	p.ID = r.newID()
	p.Scope = scope
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := r.materials.Insert(ctx, scope, p); err != nil {
		return carbon.MaterialProfile{}, storeError(err, carbon.KindMaterial, p.ID)
	}
	r.audit(ctx, ActionMaterialCreate, scope, p.ID)
	return p, nil
}

// UpdateMaterial applies patch to a material owned by scope.
func (r *Registry) UpdateMaterial(ctx context.Context, scope, id string, patch MaterialPatch) (carbon.MaterialProfile, error) {
	id = strings.TrimSpace(id)
	if r.catalog.HasMaterial(id) {
		return carbon.MaterialProfile{}, &carbon.ForbiddenError{Kind: carbon.KindMaterial, ID: id, Reason: builtinReadOnly}
	}
	current, err := r.materials.Get(ctx, scope, id)
	if err != nil {
		return carbon.MaterialProfile{}, storeError(err, carbon.KindMaterial, id)
	}

	updated, err := patch.apply(current)
	if err != nil {
		return carbon.MaterialProfile{}, err
	}
	updated.UpdatedAt = r.now().UTC()

	if err := r.materials.Update(ctx, scope, updated); err != nil {
		return carbon.MaterialProfile{}, storeError(err, carbon.KindMaterial, id)
	}
	r.audit(ctx, ActionMaterialUpdate, scope, id)
	return updated, nil
}

// DeleteMaterial removes a material owned by scope. Built-ins cannot be deleted.
func (r *Registry) DeleteMaterial(ctx context.Context, scope, id string) error {
	id = strings.TrimSpace(id)
	if r.catalog.HasMaterial(id) {
		return &carbon.ForbiddenError{Kind: carbon.KindMaterial, ID: id, Reason: builtinReadOnly}
	}
	if scope == "" {
		return &carbon.NotFoundError{Kind: carbon.KindMaterial, ID: id}
	}
	if err := r.materials.Delete(ctx, scope, id); err != nil {
		return storeError(err, carbon.KindMaterial, id)
	}
	r.audit(ctx, ActionMaterialDelete, scope, id)
	return nil
}

func (r *Registry) audit(ctx context.Context, action, scope, id string) {
	r.logger.Info().
		Str(logging.FieldRequestID, logging.RequestIDFromContext(ctx)).
		Str(logging.FieldAction, action).
		Str(logging.FieldScope, scope).
		Str(logging.FieldProfileID, id).
		Msg("profile library changed")
	if r.observer != nil {
		r.observer(action)
	}
}

func requireScope(scope string) error {
	if strings.TrimSpace(scope) == "" {
		return carbon.NewValidationError("scope", "organization scope is required")
	}
	return nil
}

// storeError maps store sentinels onto the domain error taxonomy.
func storeError(err error, kind, id string) error {
	switch {
	case errors.Is(err, ErrNoRecord):
		return &carbon.NotFoundError{Kind: kind, ID: id}
	case errors.Is(err, ErrDuplicateName):
		return carbon.NewValidationError("name", "already used by another "+kind+" in this organization")
	default:
		return fmt.Errorf("%s store: %w", kind, err)
	}
}
