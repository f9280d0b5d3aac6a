package domain

// PermissionCode is a machine-readable permission grant.
type PermissionCode string

const (
	PermAccountRead    PermissionCode = "account:read"
	PermAccountWrite   PermissionCode = "account:write"
	PermPostingRead    PermissionCode = "posting:read"
	PermPostingCreate  PermissionCode = "posting:create"
	PermPostingReverse PermissionCode = "posting:reverse"
	PermAuditRun       PermissionCode = "audit:run"
	PermOrgAdmin       PermissionCode = "org:admin"
)

// AllPermissions lists every grant; the seeded Admin role receives all of them.
var AllPermissions = []PermissionCode{
	PermAccountRead,
	PermAccountWrite,
	PermPostingRead,
	PermPostingCreate,
	PermPostingReverse,
	PermAuditRun,
	PermOrgAdmin,
}

// Operation identifies a core operation for authorization purposes.
type Operation string

const (
	OpCreateOrganization      Operation = "organization.create"
	OpReadCurrentOrganization Operation = "organization.read_current"
	OpManageMembers           Operation = "organization.manage_members"
	OpReadAccount             Operation = "account.read"
	OpCreateAccount           Operation = "account.create"
	OpUpdateAccount           Operation = "account.update"
	OpDeactivateAccount       Operation = "account.deactivate"
	OpReadPosting             Operation = "posting.read"
	OpCreatePosting           Operation = "posting.create"
	OpReversePosting          Operation = "posting.reverse"
	OpRunAudit                Operation = "audit.run"
)

// RequiredPermissions maps each operation to the permission set it requires.
// The table replaces per-handler permission annotations: the authorization
// gate is the single place that consults it.
var RequiredPermissions = map[Operation][]PermissionCode{
	OpCreateOrganization:      nil, // bootstrap-permitted, see the gate
	OpReadCurrentOrganization: nil, // bootstrap-permitted, see the gate
	OpManageMembers:           {PermOrgAdmin},
	OpReadAccount:             {PermAccountRead},
	OpCreateAccount:           {PermAccountWrite},
	OpUpdateAccount:           {PermAccountWrite},
	OpDeactivateAccount:       {PermAccountWrite},
	OpReadPosting:             {PermPostingRead},
	OpCreatePosting:           {PermPostingCreate},
	OpReversePosting:          {PermPostingCreate, PermPostingReverse},
	OpRunAudit:                {PermAuditRun},
}

// BootstrapOperations are permitted without an organization/role context, but
// only for callers that genuinely have no binding yet: creating the first
// organization, and reading "current organization" before one is selected.
var BootstrapOperations = map[Operation]bool{
	OpCreateOrganization:      true,
	OpReadCurrentOrganization: true,
}
