package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountSubtype refines an AccountType. Each subtype is valid for exactly one
// account type; see SubtypesForType.
type AccountSubtype string

const (
	SubtypeBank               AccountSubtype = "BANK"
	SubtypeCash               AccountSubtype = "CASH"
	SubtypeAccountsReceivable AccountSubtype = "AR"
	SubtypeVATReceivable      AccountSubtype = "VAT_RECEIVABLE"
	SubtypeVendorPrepayments  AccountSubtype = "VENDOR_PREPAYMENTS"
	SubtypeFixedAsset         AccountSubtype = "FIXED_ASSET"
	SubtypeOtherAsset         AccountSubtype = "OTHER_ASSET"

	SubtypeAccountsPayable     AccountSubtype = "AP"
	SubtypeVATPayable          AccountSubtype = "VAT_PAYABLE"
	SubtypeCreditCard          AccountSubtype = "CREDIT_CARD"
	SubtypeCustomerPrepayments AccountSubtype = "CUSTOMER_PREPAYMENTS"
	SubtypeOtherLiability      AccountSubtype = "OTHER_LIABILITY"

	SubtypeRetainedEarnings AccountSubtype = "RETAINED_EARNINGS"
	SubtypeOwnerEquity      AccountSubtype = "OWNER_EQUITY"

	SubtypeSales       AccountSubtype = "SALES"
	SubtypeOtherIncome AccountSubtype = "OTHER_INCOME"

	SubtypeOperatingExpense AccountSubtype = "OPERATING_EXPENSE"
	SubtypeCostOfSales      AccountSubtype = "COST_OF_SALES"
	SubtypeOtherExpense     AccountSubtype = "OTHER_EXPENSE"
)

// NormalBalance indicates which side naturally increases an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// subtypesByType is the fixed compatibility table between account types and
// their allowed subtypes.
var subtypesByType = map[AccountType][]AccountSubtype{
	Asset: {
		SubtypeBank, SubtypeCash, SubtypeAccountsReceivable,
		SubtypeVATReceivable, SubtypeVendorPrepayments,
		SubtypeFixedAsset, SubtypeOtherAsset,
	},
	Liability: {
		SubtypeAccountsPayable, SubtypeVATPayable, SubtypeCreditCard,
		SubtypeCustomerPrepayments, SubtypeOtherLiability,
	},
	Equity: {
		SubtypeRetainedEarnings, SubtypeOwnerEquity,
	},
	Income: {
		SubtypeSales, SubtypeOtherIncome,
	},
	Expense: {
		SubtypeOperatingExpense, SubtypeCostOfSales, SubtypeOtherExpense,
	},
}

// protectedSubtypes are structural subtypes the system itself posts against.
// Accounts carrying one of these can never change type/subtype or be
// deactivated, regardless of usage.
var protectedSubtypes = map[AccountSubtype]bool{
	SubtypeAccountsReceivable: true,
	SubtypeAccountsPayable:    true,
	SubtypeVATReceivable:      true,
	SubtypeVATPayable:         true,
}

// SubtypesForType returns the allowed subtypes for an account type.
func SubtypesForType(t AccountType) []AccountSubtype {
	return subtypesByType[t]
}

// IsValidSubtype reports whether the subtype belongs to the allowed set for
// the given account type.
func IsValidSubtype(t AccountType, s AccountSubtype) bool {
	for _, allowed := range subtypesByType[t] {
		if allowed == s {
			return true
		}
	}
	return false
}

// IsProtectedSubtype reports whether the subtype is structurally protected.
func IsProtectedSubtype(s AccountSubtype) bool {
	return protectedSubtypes[s]
}

// DefaultNormalBalance returns the conventional normal balance for an account
// type: ASSET/EXPENSE increase on the debit side, the rest on the credit side.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// Account represents one entry in an organization's chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID       string         `json:"accountID"`       // Primary key (UUID)
	OrganizationID  string         `json:"organizationID"`  // FK -> organizations.organization_id
	Code            string         `json:"code"`            // Unique per organization
	Name            string         `json:"name"`            // User-defined name
	AccountType     AccountType    `json:"accountType"`     // ASSET, LIABILITY, etc.
	Subtype         AccountSubtype `json:"subtype"`         // Constrained by AccountType
	NormalBalance   NormalBalance  `json:"normalBalance"`   // Defaulted by type, overridable
	ParentAccountID string         `json:"parentAccountID"` // Nullable self-reference, same org and type
	TaxCodeID       string         `json:"taxCodeID"`       // Optional tax-code link
	Description     string         `json:"description"`
	IsSystem        bool           `json:"isSystem"`       // Seeded by org setup; immutable structure
	IsReconcilable  bool           `json:"isReconcilable"` // Eligible for bank reconciliation
	IsActive        bool           `json:"isActive"`
	AuditFields
}

// IsProtected reports whether structural changes to this account are blocked
// unconditionally (system accounts and protected subtypes).
func (a Account) IsProtected() bool {
	return a.IsSystem || IsProtectedSubtype(a.Subtype)
}

// AccountReferenceCounts aggregates how many rows in each referencing relation
// point at an account. Any nonzero count makes the account "in use".
type AccountReferenceCounts struct {
	GLLines     int64 `json:"glLines"`
	OrgDefaults int64 `json:"orgDefaults"`
}

// Total returns the combined reference count.
func (c AccountReferenceCounts) Total() int64 {
	return c.GLLines + c.OrgDefaults
}
