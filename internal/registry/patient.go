package registry

import (
	"time"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/pkg/errors"
	"github.com/medregistry/registry-api/pkg/principal"
)

// PatientInput carries the createPatient parameters.
type PatientInput struct {
	Principal principal.Address
	Name      string
	DOB       int64
	Gender    string
	Allergies []string
	Contacts  []string
	Insurance []string
}

// CreatePatient creates the patient record, or extends it if the principal
// is already registered with the tenant: demographics are overwritten,
// list fields are appended to. Repeated calls grow the lists by exactly the
// supplied entries; nothing is deduplicated or replaced.
func (r *Registry) CreatePatient(key string, in PatientInput, caller principal.Address) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, errors.TenantNotFound(key)
	}
	if !isAuthorized(t, caller) {
		return nil, errors.NotAuthorized(caller.String())
	}
	if in.Principal.IsZero() {
		return nil, errors.InvalidAddress(in.Principal.String())
	}

	now := time.Now()
	p, ok := t.Patients[in.Principal]
	if !ok {
		p = &model.Patient{
			Principal:         in.Principal,
			EmergencyContacts: make(map[string]string),
			Visits:            make(map[int64]*model.Visit),
			CreatedAt:         now,
		}
		t.Patients[in.Principal] = p
	}

	p.Name = in.Name
	p.DOB = in.DOB
	p.Gender = in.Gender
	p.Allergies = append(p.Allergies, in.Allergies...)
	p.Contacts = append(p.Contacts, in.Contacts...)
	p.Insurance = append(p.Insurance, in.Insurance...)
	p.UpdatedAt = now
	t.UpdatedAt = now

	snap := clonePatient(p)
	return &snap, nil
}

// AddEmergencyContact upserts the relation -> contact entry on an existing
// patient.
func (r *Registry) AddEmergencyContact(key string, addr principal.Address, relation, contact string, caller principal.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return errors.TenantNotFound(key)
	}
	if !isAuthorized(t, caller) {
		return errors.NotAuthorized(caller.String())
	}
	p, ok := t.Patients[addr]
	if !ok {
		return errors.PatientNotFound(addr.String())
	}

	p.EmergencyContacts[relation] = contact
	p.UpdatedAt = time.Now()
	return nil
}

// DeletePatient removes the patient and its whole visit ledger.
func (r *Registry) DeletePatient(key string, p principal.Address, caller principal.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return errors.TenantNotFound(key)
	}
	if !isAuthorized(t, caller) {
		return errors.NotAuthorized(caller.String())
	}
	if _, ok := t.Patients[p]; !ok {
		return errors.PatientNotFound(p.String())
	}

	delete(t.Patients, p)
	t.UpdatedAt = time.Now()
	return nil
}

// GetPatient returns a snapshot of the patient record without its visits.
func (r *Registry) GetPatient(key string, p principal.Address) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, errors.TenantNotFound(key)
	}
	pat, ok := t.Patients[p]
	if !ok {
		return nil, errors.PatientNotFound(p.String())
	}
	snap := clonePatient(pat)
	return &snap, nil
}

func clonePatient(p *model.Patient) model.Patient {
	contacts := make(map[string]string, len(p.EmergencyContacts))
	for rel, c := range p.EmergencyContacts {
		contacts[rel] = c
	}
	return model.Patient{
		Principal:         p.Principal,
		Name:              p.Name,
		DOB:               p.DOB,
		Gender:            p.Gender,
		Allergies:         append([]string(nil), p.Allergies...),
		Contacts:          append([]string(nil), p.Contacts...),
		Insurance:         append([]string(nil), p.Insurance...),
		EmergencyContacts: contacts,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
