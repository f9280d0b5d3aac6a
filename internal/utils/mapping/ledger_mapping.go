package mapping

import (
	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/models"
)

// ToModelGLHeader converts a domain GLHeader to a model GLHeader
func ToModelGLHeader(d domain.GLHeader) models.GLHeader {
	return models.GLHeader{
		HeaderID:         d.HeaderID,
		OrganizationID:   d.OrganizationID,
		SourceType:       string(d.SourceType),
		SourceID:         d.SourceID,
		PostingDate:      d.PostingDate,
		Description:      d.Description,
		TotalDebit:       d.TotalDebit,
		TotalCredit:      d.TotalCredit,
		ReversesHeaderID: d.ReversesHeaderID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGLHeader converts a model GLHeader to a domain GLHeader
func ToDomainGLHeader(m models.GLHeader) domain.GLHeader {
	return domain.GLHeader{
		HeaderID:         m.HeaderID,
		OrganizationID:   m.OrganizationID,
		SourceType:       domain.SourceType(m.SourceType),
		SourceID:         m.SourceID,
		PostingDate:      m.PostingDate,
		Description:      m.Description,
		TotalDebit:       m.TotalDebit,
		TotalCredit:      m.TotalCredit,
		ReversesHeaderID: m.ReversesHeaderID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelGLLine converts a domain GLLine to a model GLLine
func ToModelGLLine(d domain.GLLine) models.GLLine {
	return models.GLLine{
		LineID:      d.LineID,
		HeaderID:    d.HeaderID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		PartyType:   string(d.PartyType),
		PartyID:     d.PartyID,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGLLine converts a model GLLine to a domain GLLine
func ToDomainGLLine(m models.GLLine) domain.GLLine {
	return domain.GLLine{
		LineID:      m.LineID,
		HeaderID:    m.HeaderID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		PartyType:   domain.PartyType(m.PartyType),
		PartyID:     m.PartyID,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainGLLineSlice converts a slice of model GLLines to domain GLLines
func ToDomainGLLineSlice(ms []models.GLLine) []domain.GLLine {
	ds := make([]domain.GLLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGLLine(m)
	}
	return ds
}
