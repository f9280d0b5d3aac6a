package domain

import "github.com/shopspring/decimal"

// HeaderIssue describes one header whose stored totals disagree with the live
// sum of its lines, or whose own debit and credit totals are unequal.
type HeaderIssue struct {
	HeaderID        string          `json:"headerID"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	LineDebitSum    decimal.Decimal `json:"lineDebitSum"`
	LineCreditSum   decimal.Decimal `json:"lineCreditSum"`
}

// LineIssue describes one line violating the exactly-one-side rule: debit and
// credit both positive, or both zero.
type LineIssue struct {
	LineID     string          `json:"lineID"`
	HeaderID   string          `json:"headerID"`
	LineNumber int             `json:"lineNumber"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// IntegrityReport is the outcome of one read-only audit sweep. Finding drift
// is a successful audit outcome, not an error: the report is always returned,
// never raised.
type IntegrityReport struct {
	OK     bool `json:"ok"`
	Totals struct {
		HeaderIssues int `json:"headerIssues"`
		LineIssues   int `json:"lineIssues"`
	} `json:"totals"`
	Issues struct {
		Headers []HeaderIssue `json:"headers"`
		Lines   []LineIssue   `json:"lines"`
	} `json:"issues"`
}
