package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/domain/identity"
)

type principalKey struct{}

// Principal is the authenticated caller as resolved from the identity
// collaborator: internal user id, tenant boundary, closed role set and the
// external subject the provider issued.
type Principal struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Subject  string
	Roles    []identity.Role
}

func (p *Principal) HasRole(role identity.Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) HasAnyRole(roles ...identity.Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
