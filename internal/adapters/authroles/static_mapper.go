// Package authroles maps IdP groups to application roles.
package authroles

import (
	"slices"

	domainauth "github.com/target/backoffice-ui/internal/domain/auth"
)

// StaticRoleMapper maps groups by membership. Admin wins over user; members
// of neither group are guests and may not browse the back office.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case m.AdminGroup != "" && slices.Contains(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	case m.UserGroup != "" && slices.Contains(groups, m.UserGroup):
		return domainauth.RoleUser
	default:
		return domainauth.RoleGuest
	}
}
