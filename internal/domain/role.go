// Package domain holds the request/response shapes exchanged with the MHRS
// backend. The client owns none of these entities; it only mirrors them.
package domain

import (
	"fmt"
	"strings"
)

// Role identifies which family of screens and endpoints a user can reach.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every role in login-form order.
var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// UsesUsername reports whether the role signs in with a username instead of a national id.
func (r Role) UsesUsername() bool { return r == RoleAdmin }
