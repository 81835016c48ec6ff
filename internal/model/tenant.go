package model

import (
	"time"

	"github.com/medregistry/registry-api/pkg/principal"
)

// Tenant is an independently-owned hospital. The owner is set at creation
// time and is the sole authority for role and lifecycle mutations.
type Tenant struct {
	Key       string                         `json:"key"`
	Name      string                         `json:"name"`
	Location  string                         `json:"location"`
	Owner     principal.Address              `json:"owner"`
	Staff     map[principal.Address]Role     `json:"staff"`
	Patients  map[principal.Address]*Patient `json:"-"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

type UpsertTenantRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type UpdateStaffRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}
