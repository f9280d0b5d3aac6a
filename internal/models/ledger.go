package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GLHeader is the header row of one balanced posting. Rows are insert-only;
// corrections happen through reversal headers, never updates.
type GLHeader struct {
	HeaderID         string          `db:"header_id"`
	OrganizationID   string          `db:"organization_id"`
	SourceType       string          `db:"source_type"`
	SourceID         string          `db:"source_id"`
	PostingDate      time.Time       `db:"posting_date"`
	Description      string          `db:"description"`
	TotalDebit       decimal.Decimal `db:"total_debit"`
	TotalCredit      decimal.Decimal `db:"total_credit"`
	ReversesHeaderID *string         `db:"reverses_header_id"` // Set on reversal rows only
	AuditFields
}

// GLLine is one debit-or-credit row within a posting.
type GLLine struct {
	LineID      string          `db:"line_id"`
	HeaderID    string          `db:"header_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	PartyType   string          `db:"party_type"` // Nullable
	PartyID     string          `db:"party_id"`   // Nullable
	Description string          `db:"description"`
	AuditFields
}
