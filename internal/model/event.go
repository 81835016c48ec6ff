package model

import "github.com/medregistry/registry-api/pkg/principal"

// Notification event types carried through the outbox.
const (
	EventTenantCreated    = "TENANT_CREATED"
	EventStaffRoleUpdated = "STAFF_ROLE_UPDATED"
	EventPatientCreated   = "PATIENT_CREATED"
	EventVisitCreated     = "VISIT_CREATED"
)

type TenantCreatedEvent struct {
	Name  string            `json:"name"`
	Key   string            `json:"key"`
	Owner principal.Address `json:"owner"`
}

type StaffRoleUpdatedEvent struct {
	Key       string            `json:"key"`
	Principal principal.Address `json:"principal"`
	Role      Role              `json:"role"`
}

type PatientCreatedEvent struct {
	Name      string            `json:"name"`
	Principal principal.Address `json:"principal"`
	DOB       int64             `json:"dob"`
}

type VisitCreatedEvent struct {
	Name      string            `json:"name"`
	Principal principal.Address `json:"principal"`
	Date      int64             `json:"date"`
}
