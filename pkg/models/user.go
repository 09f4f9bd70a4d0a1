package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	IsActive     bool      `json:"is_active"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}

// HasPermission reports whether the user's role grants the operation on the
// resource. A nil user holds no permissions.
func (u *User) HasPermission(resource, operation string) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.HasPermission(resource, operation)
}

// HasCapability reports whether the user's role grants the named capability.
// A nil user holds no capabilities.
func (u *User) HasCapability(name string) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.HasCapability(name)
}

// Capabilities lists the user's capability names.
func (u *User) Capabilities() []string {
	capabilities := make([]string, 0)
	if u == nil || u.Role == nil {
		return capabilities
	}
	for _, p := range u.Role.Permissions {
		capabilities = append(capabilities, p.Capability())
	}
	return capabilities
}
