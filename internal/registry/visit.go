package registry

import (
	stderrors "errors"
	"sort"
	"time"

	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/pkg/errors"
	"github.com/medregistry/registry-api/pkg/principal"
)

// ErrVisitNotFound is returned by GetVisit when the patient exists but has
// no visit under the requested date.
var ErrVisitNotFound = stderrors.New("visit not found")

// VisitInput carries the recordVisit parameters.
type VisitInput struct {
	Principal     principal.Address
	Date          int64
	Medications   []string
	Diagnoses     []string
	TreatmentPlan []string
}

// RecordVisit appends the supplied entries to the visit identified by date,
// creating it on first use. Recording twice against the same date merges
// into one visit holding both calls' entries in call order. The patient's
// current name is returned alongside the snapshot for the notification.
func (r *Registry) RecordVisit(key string, in VisitInput, caller principal.Address) (*model.Visit, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, "", errors.TenantNotFound(key)
	}
	if !isAuthorized(t, caller) {
		return nil, "", errors.NotAuthorized(caller.String())
	}
	p, ok := t.Patients[in.Principal]
	if !ok {
		return nil, "", errors.PatientNotFound(in.Principal.String())
	}

	now := time.Now()
	v, ok := p.Visits[in.Date]
	if !ok {
		v = &model.Visit{
			Date:      in.Date,
			CreatedAt: now,
		}
		p.Visits[in.Date] = v
	}

	v.Medications = append(v.Medications, in.Medications...)
	v.Diagnoses = append(v.Diagnoses, in.Diagnoses...)
	v.TreatmentPlan = append(v.TreatmentPlan, in.TreatmentPlan...)
	v.UpdatedAt = now
	p.UpdatedAt = now

	snap := cloneVisit(v)
	return &snap, p.Name, nil
}

// ListVisits returns the patient's ledger ordered by date.
func (r *Registry) ListVisits(key string, addr principal.Address) ([]*model.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, errors.TenantNotFound(key)
	}
	p, ok := t.Patients[addr]
	if !ok {
		return nil, errors.PatientNotFound(addr.String())
	}

	visits := make([]*model.Visit, 0, len(p.Visits))
	for _, v := range p.Visits {
		snap := cloneVisit(v)
		visits = append(visits, &snap)
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].Date < visits[j].Date })
	return visits, nil
}

// GetVisit returns the visit recorded under date.
func (r *Registry) GetVisit(key string, addr principal.Address, date int64) (*model.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[key]
	if !ok {
		return nil, errors.TenantNotFound(key)
	}
	p, ok := t.Patients[addr]
	if !ok {
		return nil, errors.PatientNotFound(addr.String())
	}
	v, ok := p.Visits[date]
	if !ok {
		return nil, ErrVisitNotFound
	}
	snap := cloneVisit(v)
	return &snap, nil
}

func cloneVisit(v *model.Visit) model.Visit {
	return model.Visit{
		Date:          v.Date,
		Medications:   append([]string(nil), v.Medications...),
		Diagnoses:     append([]string(nil), v.Diagnoses...),
		TreatmentPlan: append([]string(nil), v.TreatmentPlan...),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
