package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles this service understands. Anything else
// coming back from the identity provider is dropped at parse time.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}

func ParseRoles(raw string) []Role {
	parts := strings.Split(raw, ",")
	out := make([]Role, 0, len(parts))
	for _, p := range parts {
		r := Role(strings.ToLower(strings.TrimSpace(p)))
		if ValidRole(r) {
			out = append(out, r)
		}
	}
	return out
}

func JoinRoles(roles []Role) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`

	// Subject issued by the external identity provider.
	ExternalSubject string `gorm:"column:external_subject;index" json:"external_subject"`

	// Comma-separated closed-set roles; parsed with ParseRoles.
	Roles string `gorm:"not null;default:'employee';column:roles" json:"roles"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

func (u *User) RoleSet() []Role { return ParseRoles(u.Roles) }
