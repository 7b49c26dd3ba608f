package token

import (
	"strings"
	"time"
)

// Role gates which dashboard views and resources a user may reach.
type Role string

const (
	RoleMember Role = "Member"
	RoleStaff  Role = "Staff"
	RoleAdmin  Role = "Admin"
)

// ParseRole maps a role claim onto a known Role. Matching ignores case so
// "admin" and "Admin" are the same role.
func ParseRole(s string) (Role, bool) {
	switch {
	case strings.EqualFold(s, string(RoleMember)):
		return RoleMember, true
	case strings.EqualFold(s, string(RoleStaff)):
		return RoleStaff, true
	case strings.EqualFold(s, string(RoleAdmin)):
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// LandingPath is the dashboard entry point a user of this role is sent to after login.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/dashboard/admin/ministry"
	case RoleStaff:
		return "/dashboard/staff/team"
	case RoleMember:
		return "/dashboard/member"
	default:
		return "/dashboard"
	}
}

// Claims is the decoded view of an access token.
type Claims struct {
	SubjectID string     // user_id
	Email     string     // email
	Role      Role       // role, empty when the token carries none
	IssuedAt  *time.Time // iat
	ExpiresAt *time.Time // exp
}

// Expired reports whether now is at or past the expiry. Claims without an
// expiry are always expired.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return !now.Before(*c.ExpiresAt)
}
