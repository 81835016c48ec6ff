package principal

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address identifies a caller, staff member or patient. Addresses come from
// the identity layer as 20-byte hex strings ("0x" + 40 hex chars); the
// registry only ever compares them and checks for the zero sentinel.
type Address string

// Zero is the null identity. Operations that take a principal reject it.
const Zero Address = "0x0000000000000000000000000000000000000000"

const hexLen = 40

// Parse normalizes and validates a raw address string.
func Parse(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(raw) != hexLen {
		return "", fmt.Errorf("address must be %d hex characters, got %q", hexLen, s)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", fmt.Errorf("address %q is not hex: %w", s, err)
	}
	return Address("0x" + raw), nil
}

// MustParse is for tests and fixtures.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether the address is the null identity (or unset).
func (a Address) IsZero() bool {
	return a == "" || a == Zero
}

func (a Address) String() string {
	return string(a)
}
