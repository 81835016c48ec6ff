package registry

import (
	"github.com/medregistry/registry-api/internal/model"
	"github.com/medregistry/registry-api/pkg/principal"
)

// isAuthorized gates every patient and visit mutation: the caller must be
// the tenant owner or hold one of the clinical roles (Admin, Doctor,
// Nurse). Staff does not qualify. The check reads the live role registry on
// every call; decisions are never cached, since assignments can change
// between calls.
func isAuthorized(t *model.Tenant, caller principal.Address) bool {
	if caller == t.Owner {
		return true
	}
	return t.Staff[caller].Clinical()
}
