// Package registry holds the in-memory core of the hospital registry: the
// tenant directory, per-tenant role registries and patient stores, and the
// authorization checks gating every mutation. All state hangs off a single
// root map and every operation runs under one lock, so each call sees a
// consistent snapshot and either commits all of its writes or none of them.
// Durable persistence and notification delivery live outside this package.
package registry

import (
	"sync"
	"time"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/pkg/errors"
	"github.com/medregistry/registry-api/pkg/principal"
)

type Registry struct {
	mu      sync.RWMutex
	tenants map[string]*model.Tenant
}

func New() *Registry {
	return &Registry{
		tenants: make(map[string]*model.Tenant),
	}
}

// UpsertResult reports what UpsertTenant did. OwnerChanged flags the
// ownership-reset hazard on key reuse so callers can surface it.
type UpsertResult struct {
	Tenant       model.Tenant
	Replaced     bool
	OwnerChanged bool
}

// UpsertTenant creates the tenant entry for key, or overwrites name,
// location and owner if the key is already taken. There is deliberately no
// authorization gate: any caller may claim a key, including one that is
// currently owned by someone else. That overwrite-resets-owner behavior is
// part of the published contract (see DESIGN.md).
func (r *Registry) UpsertTenant(key, name, location string, caller principal.Address) UpsertResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t, ok := r.tenants[key]
	if !ok {
		t = &model.Tenant{
			Key:       key,
			Staff:     make(map[principal.Address]model.Role),
			Patients:  make(map[principal.Address]*model.Patient),
			CreatedAt: now,
		}
		r.tenants[key] = t
	}

	ownerChanged := ok && t.Owner != caller
	t.Name = name
	t.Location = location
	t.Owner = caller
	t.UpdatedAt = now

	return UpsertResult{
		Tenant:       r.cloneTenant(t),
		Replaced:     ok,
		OwnerChanged: ownerChanged,
	}
}

// GetTenant returns a snapshot of the tenant record. Patients are not
// included; they are read through the patient lookups.
func (r *Registry) GetTenant(key string) (*model.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, errors.TenantNotFound(key)
	}
	snap := r.cloneTenant(t)
	return &snap, nil
}

// DeleteTenant removes the tenant and everything under it: role registry,
// patients and their visit ledgers.
func (r *Registry) DeleteTenant(key string, caller principal.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return errors.TenantNotFound(key)
	}
	if caller != t.Owner {
		return errors.NotOwner(caller.String())
	}

	delete(r.tenants, key)
	return nil
}

// UpdateStaffRole sets or replaces the role assignment for p. Owner only;
// the role label must belong to the closed set.
func (r *Registry) UpdateStaffRole(key string, p principal.Address, role model.Role, caller principal.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return errors.TenantNotFound(key)
	}
	if caller != t.Owner {
		return errors.NotOwner(caller.String())
	}
	if p.IsZero() {
		return errors.InvalidAddress(p.String())
	}
	if !role.Valid() {
		return errors.InvalidRole(role.String())
	}

	t.Staff[p] = role
	t.UpdatedAt = time.Now()
	return nil
}

// StaffRole returns p's role assignment, RoleNone if p holds none. The
// owner carries no assignment of its own; ownership is implicit privilege.
func (r *Registry) StaffRole(key string, p principal.Address) (model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[key]
	if !ok {
		return model.RoleNone, errors.TenantNotFound(key)
	}
	return t.Staff[p], nil
}

// DeleteStaff removes p's role assignment. Owner only; p must currently
// hold a role.
func (r *Registry) DeleteStaff(key string, p principal.Address, caller principal.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return errors.TenantNotFound(key)
	}
	if caller != t.Owner {
		return errors.NotOwner(caller.String())
	}
	if p.IsZero() {
		return errors.InvalidAddress(p.String())
	}
	if t.Staff[p] == model.RoleNone {
		return errors.StaffNotFound(p.String())
	}

	delete(t.Staff, p)
	t.UpdatedAt = time.Now()
	return nil
}

// cloneTenant copies the tenant without its patient store. Callers hold at
// least the read lock.
func (r *Registry) cloneTenant(t *model.Tenant) model.Tenant {
	staff := make(map[principal.Address]model.Role, len(t.Staff))
	for p, role := range t.Staff {
		staff[p] = role
	}
	return model.Tenant{
		Key:       t.Key,
		Name:      t.Name,
		Location:  t.Location,
		Owner:     t.Owner,
		Staff:     staff,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
