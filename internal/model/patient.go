package model

import (
	"time"

	"github.com/medregistry/registry-api/pkg/principal"
)

// Patient is keyed by principal within a tenant; the same principal may be a
// patient of multiple tenants independently. List fields are append-only:
// repeated creates extend them, nothing removes individual entries.
type Patient struct {
	Principal         principal.Address `json:"principal"`
	Name              string            `json:"name"`
	DOB               int64             `json:"dob"`
	Gender            string            `json:"gender"`
	Allergies         []string          `json:"allergies"`
	Contacts          []string          `json:"contacts"`
	Insurance         []string          `json:"insurance"`
	EmergencyContacts map[string]string `json:"emergency_contacts"`
	Visits            map[int64]*Visit  `json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type CreatePatientRequest struct {
	Principal string   `json:"principal" binding:"required,principal"`
	Name      string   `json:"name" binding:"required"`
	DOB       int64    `json:"dob" binding:"required"`
	Gender    string   `json:"gender"`
	Allergies []string `json:"allergies"`
	Contacts  []string `json:"contacts"`
	Insurance []string `json:"insurance"`
}

type AddEmergencyContactRequest struct {
	Relation string `json:"relation" binding:"required"`
	Contact  string `json:"contact" binding:"required"`
}
