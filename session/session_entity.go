package session

import (
	"context"
	"time"

	"oficina/authority"

	"github.com/fundwit/go-commons/types"
)

type Session struct {
	Token    string                `json:"token"`
	Identity Identity              `json:"identity"`
	TenantID types.ID              `json:"tenantId"`
	Perms    authority.Permissions `json:"perms"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

func (s *Session) Clone() Session {
	c := *s
	perms := make(authority.Permissions, len(s.Perms))
	copy(perms, s.Perms)
	c.Perms = perms
	return c
}

// SystemAdmin sessions may cross tenant boundaries; everyone else is pinned
// to their own tenant.
func (s *Session) VisibleTenant(tenantId types.ID) bool {
	if s.Perms.HasRole(authority.RoleSystemAdmin) {
		return true
	}
	return s.TenantID == tenantId
}
