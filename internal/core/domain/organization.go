package domain

import "time"

// Organization is the tenant boundary. Every ledger entity is exclusively
// owned by one organization; no entity is shared across organizations.
type Organization struct {
	OrganizationID      string  `json:"organizationID"` // Primary key (UUID)
	Name                string  `json:"name"`
	BaseCurrencyCode    string  `json:"baseCurrencyCode"`
	DefaultARAccountID  *string `json:"defaultARAccountID"` // Set once the system chart is seeded
	DefaultAPAccountID  *string `json:"defaultAPAccountID"`
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// Role groups a named set of permission grants within one organization.
type Role struct {
	RoleID         string           `json:"roleID"` // Primary key (UUID)
	OrganizationID string           `json:"organizationID"`
	Name           string           `json:"name"`
	Permissions    []PermissionCode `json:"permissions"`
	IsSystem       bool             `json:"isSystem"` // Seeded roles (e.g. Admin) cannot be deleted
	AuditFields
}

// Grants reports whether the role's permission set is a superset of required.
// Permission checks are all-or-nothing: a partial match is a denial.
func (r Role) Grants(required []PermissionCode) bool {
	granted := make(map[PermissionCode]bool, len(r.Permissions))
	for _, p := range r.Permissions {
		granted[p] = true
	}
	for _, p := range required {
		if !granted[p] {
			return false
		}
	}
	return true
}

// Membership binds a user to an organization with a role. It is revocable
// independently of the user's login session: the authorization gate re-reads
// it live on every mutation instead of trusting token claims.
type Membership struct {
	MembershipID   string     `json:"membershipID"` // Primary key (UUID)
	UserID         string     `json:"userID"`
	OrganizationID string     `json:"organizationID"`
	RoleID         string     `json:"roleID"`
	IsActive       bool       `json:"isActive"`
	DeletedAt      *time.Time `json:"deletedAt"`
	JoinedAt       time.Time  `json:"joinedAt"`
}

// Identity is the resolved caller identity handed to the core by the
// authentication boundary. Org/role/membership are empty until the caller has
// selected (or been bound to) an organization.
type Identity struct {
	UserID         string `json:"userID"`
	OrganizationID string `json:"organizationID"`
	RoleID         string `json:"roleID"`
	MembershipID   string `json:"membershipID"`
}

// HasOrgContext reports whether the identity carries a full organization
// binding (org, role, and membership).
func (i Identity) HasOrgContext() bool {
	return i.OrganizationID != "" && i.RoleID != "" && i.MembershipID != ""
}
