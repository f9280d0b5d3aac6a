package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies which kind of business document produced a posting.
type SourceType string

const (
	SourceInvoice  SourceType = "INVOICE"
	SourceBill     SourceType = "BILL"
	SourcePayment  SourceType = "PAYMENT"
	SourceJournal  SourceType = "JOURNAL"
	SourceCheque   SourceType = "CHEQUE"
	SourceReversal SourceType = "REVERSAL"
)

// GLHeader is the header of one balanced general-ledger posting.
// TotalDebit always equals TotalCredit, and both equal the sum of the
// corresponding sides of the posting's lines. Headers are immutable once
// written; reversals create a new header that nets the original effect.
type GLHeader struct {
	HeaderID         string          `json:"headerID"`       // Primary key (UUID)
	OrganizationID   string          `json:"organizationID"` // FK -> organizations.organization_id
	SourceType       SourceType      `json:"sourceType"`
	SourceID         string          `json:"sourceID"` // Document that produced this posting
	PostingDate      time.Time       `json:"postingDate"`
	Description      string          `json:"description"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	ReversesHeaderID *string         `json:"reversesHeaderID"` // Set on reversal postings only
	Lines            []GLLine        `json:"lines,omitempty"`
	AuditFields
}

// PartyType distinguishes the optional party reference on a ledger line.
type PartyType string

const (
	PartyCustomer PartyType = "CUSTOMER"
	PartyVendor   PartyType = "VENDOR"
)

// GLLine is one debit-or-credit entry within a posting. Exactly one of
// Debit/Credit is strictly positive; the other is exactly zero.
type GLLine struct {
	LineID      string          `json:"lineID"`     // Primary key (UUID)
	HeaderID    string          `json:"headerID"`   // FK -> gl_headers.header_id
	LineNumber  int             `json:"lineNumber"` // 1-based, sequential within the header
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PartyType   PartyType       `json:"partyType,omitempty"` // Optional customer/vendor reference
	PartyID     string          `json:"partyID,omitempty"`
	Description string          `json:"description"`
	AuditFields
}
