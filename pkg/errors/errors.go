package errors

import (
	"errors"
	"fmt"
)

// Kind classifies registry failures. Every failed check aborts its call with
// no state change, so a Kind plus the offending value is the whole story.
type Kind int

const (
	KindInvalidAddress Kind = iota + 1
	KindTenantNotFound
	KindInvalidRole
	KindNotOwner
	KindStaffNotFound
	KindNotAuthorized
	KindPatientNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAddress:
		return "invalid_address"
	case KindTenantNotFound:
		return "tenant_not_found"
	case KindInvalidRole:
		return "invalid_role"
	case KindNotOwner:
		return "not_owner"
	case KindStaffNotFound:
		return "staff_not_found"
	case KindNotAuthorized:
		return "not_authorized"
	case KindPatientNotFound:
		return "patient_not_found"
	default:
		return "internal"
	}
}

// RegistryError carries the failure kind and the value that tripped the
// check (address, tenant key or role label) for diagnostics.
type RegistryError struct {
	Kind    Kind
	Message string
	Value   string
	Err     error
}

func (e *RegistryError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Value)
	}
	return e.Message
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// Is lets callers match by kind: errors.Is(err, &RegistryError{Kind: KindNotOwner}).
func (e *RegistryError) Is(target error) bool {
	t, ok := target.(*RegistryError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func InvalidAddress(addr string) *RegistryError {
	return &RegistryError{Kind: KindInvalidAddress, Message: "principal is the null address", Value: addr}
}

func TenantNotFound(key string) *RegistryError {
	return &RegistryError{Kind: KindTenantNotFound, Message: "tenant not found", Value: key}
}

func InvalidRole(role string) *RegistryError {
	return &RegistryError{Kind: KindInvalidRole, Message: "role is outside the permitted set", Value: role}
}

func NotOwner(caller string) *RegistryError {
	return &RegistryError{Kind: KindNotOwner, Message: "caller is not the tenant owner", Value: caller}
}

func StaffNotFound(addr string) *RegistryError {
	return &RegistryError{Kind: KindStaffNotFound, Message: "principal holds no role assignment", Value: addr}
}

func NotAuthorized(caller string) *RegistryError {
	return &RegistryError{Kind: KindNotAuthorized, Message: "caller holds no qualifying clinical role", Value: caller}
}

func PatientNotFound(addr string) *RegistryError {
	return &RegistryError{Kind: KindPatientNotFound, Message: "patient not found", Value: addr}
}

func Internal(err error) *RegistryError {
	return &RegistryError{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the Kind from an error chain, KindInternal if none.
func KindOf(err error) Kind {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
