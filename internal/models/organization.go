package models

import "time"

// Organization is the tenant row. Every other table carries its ID.
type Organization struct {
	OrganizationID     string  `db:"organization_id"`
	Name               string  `db:"name"`
	BaseCurrencyCode   string  `db:"base_currency_code"`
	DefaultARAccountID *string `db:"default_ar_account_id"` // Nullable until the chart is seeded
	DefaultAPAccountID *string `db:"default_ap_account_id"`
	IsActive           bool    `db:"is_active"`
	AuditFields
}

// Role holds a named permission set within one organization.
// Permissions are stored as a text[] column.
type Role struct {
	RoleID         string   `db:"role_id"`
	OrganizationID string   `db:"organization_id"`
	Name           string   `db:"name"`
	Permissions    []string `db:"permissions"`
	IsSystem       bool     `db:"is_system"`
	AuditFields
}

// Membership binds a user to an organization with a role.
type Membership struct {
	MembershipID   string     `db:"membership_id"`
	UserID         string     `db:"user_id"`
	OrganizationID string     `db:"organization_id"`
	RoleID         string     `db:"role_id"`
	IsActive       bool       `db:"is_active"`
	DeletedAt      *time.Time `db:"deleted_at"`
	JoinedAt       time.Time  `db:"joined_at"`
}
