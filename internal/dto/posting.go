package dto

import (
	"encoding/json"
	"time"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/utils/money"
	"github.com/shopspring/decimal"
)

// LineDraft is one candidate ledger line submitted by a document service.
// Exactly one of Debit/Credit must be strictly positive after rounding.
type LineDraft struct {
	AccountID   string           `json:"accountID" binding:"required"`
	Debit       decimal.Decimal  `json:"debit"`
	Credit      decimal.Decimal  `json:"credit"`
	Description string           `json:"description"`
	PartyType   domain.PartyType `json:"partyType" binding:"omitempty,oneof=CUSTOMER VENDOR"`
	PartyID     string           `json:"partyID"`
}

// CreatePostingRequest defines the input to the posting engine.
type CreatePostingRequest struct {
	SourceType  domain.SourceType `json:"sourceType" binding:"required,oneof=INVOICE BILL PAYMENT JOURNAL CHEQUE"`
	SourceID    string            `json:"sourceID" binding:"required"`
	PostingDate time.Time         `json:"postingDate" binding:"required"`
	Description string            `json:"description"`
	Lines       []LineDraft       `json:"lines" binding:"required,min=2,dive"`

	// IdempotencyToken comes from the Idempotency-Key header, not the body.
	IdempotencyToken string `json:"-"`
}

// PostingResponse is returned for a committed posting.
type PostingResponse struct {
	HeaderID    string   `json:"headerID"`
	LineIDs     []string `json:"lineIDs"`
	TotalDebit  string   `json:"totalDebit"`
	TotalCredit string   `json:"totalCredit"`
}

// PostingResult wraps a posting outcome: either a freshly committed response
// or the verbatim cached body of an idempotent replay.
type PostingResult struct {
	Response   *PostingResponse `json:"response,omitempty"`
	Raw        json.RawMessage  `json:"-"` // Cached body, set on replay only
	StatusCode int              `json:"-"`
	Replayed   bool             `json:"-"`
}

// ToPostingResponse builds the response DTO from a committed header+lines.
func ToPostingResponse(header *domain.GLHeader, lines []domain.GLLine) PostingResponse {
	lineIDs := make([]string, len(lines))
	for i, l := range lines {
		lineIDs[i] = l.LineID
	}
	return PostingResponse{
		HeaderID:    header.HeaderID,
		LineIDs:     lineIDs,
		TotalDebit:  money.String(header.TotalDebit),
		TotalCredit: money.String(header.TotalCredit),
	}
}

// GLLineResponse mirrors a persisted ledger line.
type GLLineResponse struct {
	LineID      string           `json:"lineID"`
	LineNumber  int              `json:"lineNumber"`
	AccountID   string           `json:"accountID"`
	Debit       string           `json:"debit"`
	Credit      string           `json:"credit"`
	PartyType   domain.PartyType `json:"partyType,omitempty"`
	PartyID     string           `json:"partyID,omitempty"`
	Description string           `json:"description"`
}

// GLHeaderResponse mirrors a persisted posting header with its lines.
type GLHeaderResponse struct {
	HeaderID         string            `json:"headerID"`
	SourceType       domain.SourceType `json:"sourceType"`
	SourceID         string            `json:"sourceID"`
	PostingDate      time.Time         `json:"postingDate"`
	Description      string            `json:"description"`
	TotalDebit       string            `json:"totalDebit"`
	TotalCredit      string            `json:"totalCredit"`
	ReversesHeaderID *string           `json:"reversesHeaderID,omitempty"`
	Lines            []GLLineResponse  `json:"lines,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ToGLHeaderResponse converts a domain header (with lines, if loaded).
func ToGLHeaderResponse(h *domain.GLHeader) GLHeaderResponse {
	resp := GLHeaderResponse{
		HeaderID:         h.HeaderID,
		SourceType:       h.SourceType,
		SourceID:         h.SourceID,
		PostingDate:      h.PostingDate,
		Description:      h.Description,
		TotalDebit:       money.String(h.TotalDebit),
		TotalCredit:      money.String(h.TotalCredit),
		ReversesHeaderID: h.ReversesHeaderID,
		CreatedAt:        h.CreatedAt,
	}
	if len(h.Lines) > 0 {
		resp.Lines = make([]GLLineResponse, len(h.Lines))
		for i, l := range h.Lines {
			resp.Lines[i] = GLLineResponse{
				LineID:      l.LineID,
				LineNumber:  l.LineNumber,
				AccountID:   l.AccountID,
				Debit:       money.String(l.Debit),
				Credit:      money.String(l.Credit),
				PartyType:   l.PartyType,
				PartyID:     l.PartyID,
				Description: l.Description,
			}
		}
	}
	return resp
}

// ListPostingsParams defines query parameters for listing postings.
type ListPostingsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPostingsResponse wraps a page of headers with the next-page token.
type ListPostingsResponse struct {
	Postings  []GLHeaderResponse `json:"postings"`
	NextToken *string            `json:"nextToken,omitempty"`
}
