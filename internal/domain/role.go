package domain

import (
	"fmt"
	"strings"
)

// Role is the capability resolved once per request from the X-Role header.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a header value to a Role. An empty value is the customer default.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(RoleCustomer):
		return RoleCustomer, nil
	case string(RoleStaff):
		return RoleStaff, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", NewValidationError("X-Role", "unknown role %q", raw)
	}
}

func (r Role) rank() int {
	switch r {
	case RoleStaff:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether r carries every capability of min.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

// Require returns ErrForbidden unless r is at least min.
func (r Role) Require(min Role) error {
	if r.AtLeast(min) {
		return nil
	}
	return fmt.Errorf("role %s requires %s: %w", r, min, ErrForbidden)
}
