package models

// Account represents one row of an organization's chart of accounts.
// Note: ParentAccountID and TaxCodeID use empty string for NULL; the
// repository maps them through sql.NullString at the boundary.
type Account struct {
	AccountID       string `db:"account_id"`
	OrganizationID  string `db:"organization_id"`
	Code            string `db:"code"` // Unique per organization
	Name            string `db:"name"`
	AccountType     string `db:"account_type"`
	Subtype         string `db:"subtype"`
	NormalBalance   string `db:"normal_balance"`
	ParentAccountID string `db:"parent_account_id"` // Nullable self-reference
	TaxCodeID       string `db:"tax_code_id"`       // Nullable
	Description     string `db:"description"`
	IsSystem        bool   `db:"is_system"`
	IsReconcilable  bool   `db:"is_reconcilable"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}
