package resources

import (
	"slices"
	"sort"
	"strings"

	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/token"
)

var (
	ErrNotFound        = errors.ErrNotFound
	ErrUnexpectedShape = errors.ErrUnexpectedShape
)

// Kind describes a resource type: where it lives and who may use it.
type Kind struct {
	Name   string
	Path   string
	Read   []token.Role
	Manage []token.Role
}

func (k Kind) CanRead(role token.Role) bool {
	return slices.Contains(k.Read, role) || k.CanManage(role)
}

func (k Kind) CanManage(role token.Role) bool {
	return slices.Contains(k.Manage, role)
}

var (
	adminOnly  = []token.Role{token.RoleAdmin}
	adminStaff = []token.Role{token.RoleAdmin, token.RoleStaff}
	everyone   = []token.Role{token.RoleAdmin, token.RoleStaff, token.RoleMember}
)

var kinds = map[string]Kind{
	"ministry":       {Name: "ministry", Path: "/ministry", Read: adminStaff, Manage: adminOnly},
	"teams":          {Name: "teams", Path: "/teams", Read: adminStaff, Manage: adminStaff},
	"ministry-teams": {Name: "ministry-teams", Path: "/ministry-teams", Read: adminStaff, Manage: adminOnly},
	"members":        {Name: "members", Path: "/members/members", Manage: adminOnly},
	"staff":          {Name: "staff", Path: "/staff/staff", Manage: adminOnly},
	"users":          {Name: "users", Path: "/user/users", Manage: adminOnly},
	"families":       {Name: "families", Path: "/families", Manage: adminOnly},
	"events":         {Name: "events", Path: "/events", Read: everyone, Manage: adminStaff},
}

// LookupKind finds a kind by name, case-insensitively.
func LookupKind(name string) (Kind, bool) {
	k, ok := kinds[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// KindNames returns the registered kind names in sorted order.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KindsFor returns the kinds role may read, sorted by name.
func KindsFor(role token.Role) []Kind {
	var out []Kind
	for _, name := range KindNames() {
		if k := kinds[name]; k.CanRead(role) {
			out = append(out, k)
		}
	}
	return out
}
