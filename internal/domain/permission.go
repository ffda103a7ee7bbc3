package domain

// UserRole is an application role carried in token claims.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleMember  UserRole = "member"
	RoleVisitor UserRole = "visitor"
)

// Resource is a guarded API resource.
type Resource string

const (
	ResourceEvents   Resource = "events"
	ResourceProjects Resource = "projects"
	ResourceTickets  Resource = "tickets"
	ResourceUsers    Resource = "users"
)

// Permission is an action on a resource. PermissionAll implicitly
// satisfies any specific permission check.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionExport Permission = "export"
	PermissionAll    Permission = "all"
)

// PermissionMatrix maps {role, resource} to the permissions the role holds.
// It is built once at startup and injected into the authorization
// middleware; it is never mutated afterwards.
type PermissionMatrix map[UserRole]map[Resource][]Permission

// HasPermission reports whether role holds perm (or PermissionAll) on resource.
func (m PermissionMatrix) HasPermission(role UserRole, resource Resource, perm Permission) bool {
	perms, ok := m[role][resource]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == perm || p == PermissionAll {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether any of the given role codes holds perm on resource.
func (m PermissionMatrix) HasAnyRole(roles []string, resource Resource, perm Permission) bool {
	for _, r := range roles {
		if m.HasPermission(UserRole(r), resource, perm) {
			return true
		}
	}
	return false
}

// DefaultPermissionMatrix returns the role-permission table used by the
// API. Admins can do anything on events and projects; members can read and
// write events but only read projects; visitors are read-only.
func DefaultPermissionMatrix() PermissionMatrix {
	return PermissionMatrix{
		RoleAdmin: {
			ResourceEvents:   {PermissionAll},
			ResourceProjects: {PermissionAll},
		},
		RoleMember: {
			ResourceEvents:   {PermissionRead, PermissionWrite},
			ResourceProjects: {PermissionRead},
		},
		RoleVisitor: {
			ResourceEvents:   {PermissionRead},
			ResourceProjects: {PermissionRead},
		},
	}
}
