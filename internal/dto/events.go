package dto

import (
	"time"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// PostingCommittedEvent is emitted after a posting transaction commits.
// Downstream consumers (reporting, notifications) treat it as informational;
// the ledger itself never depends on its delivery.
type PostingCommittedEvent struct {
	OrganizationID string            `json:"organizationID"`
	HeaderID       string            `json:"headerID"`
	SourceType     domain.SourceType `json:"sourceType"`
	SourceID       string            `json:"sourceID"`
	TotalDebit     string            `json:"totalDebit"`
	TotalCredit    string            `json:"totalCredit"`
	LineCount      int               `json:"lineCount"`
	CommittedAt    time.Time         `json:"committedAt"`
}
