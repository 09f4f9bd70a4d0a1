package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Permission resources.
const (
	ResourceCatalog       = "catalog"
	ResourceBookInstances = "bookinstances"
	ResourceUsers         = "users"
)

// Permission operations.
const (
	OperationRead         = "read"
	OperationWrite        = "write"
	OperationMarkReturned = "mark_returned"
)

// Predefined role names.
const (
	RoleLibrarian = "librarian"
	RolePatron    = "patron"
)

// Capabilities are "<resource>:<operation>" pairs.
var (
	CapabilityCatalogRead  = Capability(ResourceCatalog, OperationRead)
	CapabilityCatalogWrite = Capability(ResourceCatalog, OperationWrite)
	CapabilityMarkReturned = Capability(ResourceBookInstances, OperationMarkReturned)
	CapabilityUsersRead    = Capability(ResourceUsers, OperationRead)
	CapabilityUsersWrite   = Capability(ResourceUsers, OperationWrite)
)

// GrantableCapabilities lists every capability a role can hold.
var GrantableCapabilities = []string{
	CapabilityCatalogRead,
	CapabilityCatalogWrite,
	Capability(ResourceBookInstances, OperationRead),
	CapabilityMarkReturned,
	CapabilityUsersRead,
	CapabilityUsersWrite,
}

// Capability names a permission as "<resource>:<operation>".
func Capability(resource, operation string) string {
	return resource + ":" + operation
}

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          int           `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Name        string        `bun:",nullzero" json:"name"`
	IsSystem    bool          `json:"is_system"`
	Permissions []*Permission `bun:"rel:has-many,join:id=role_id" json:"permissions,omitempty"`
}

type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID        int    `bun:",pk,nullzero" json:"id"`
	RoleID    int    `json:"role_id"`
	Resource  string `json:"resource"`
	Operation string `json:"operation"`
}

func (p *Permission) Capability() string {
	return Capability(p.Resource, p.Operation)
}

func (r *Role) HasPermission(resource, operation string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Operation == operation {
			return true
		}
	}
	return false
}

// HasCapability checks a "<resource>:<operation>" capability name.
func (r *Role) HasCapability(name string) bool {
	resource, operation, ok := strings.Cut(name, ":")
	if !ok {
		return false
	}
	return r.HasPermission(resource, operation)
}
