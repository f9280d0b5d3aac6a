package mapping

import (
	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/models"
)

// ToModelIdempotencyKey converts a domain IdempotencyKey to a model IdempotencyKey
func ToModelIdempotencyKey(d domain.IdempotencyKey) models.IdempotencyKey {
	return models.IdempotencyKey{
		OrganizationID: d.OrganizationID,
		ScopeKey:       d.ScopeKey,
		RequestHash:    d.RequestHash,
		Response:       d.Response,
		StatusCode:     d.StatusCode,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainIdempotencyKey converts a model IdempotencyKey to a domain IdempotencyKey
func ToDomainIdempotencyKey(m models.IdempotencyKey) domain.IdempotencyKey {
	return domain.IdempotencyKey{
		OrganizationID: m.OrganizationID,
		ScopeKey:       m.ScopeKey,
		RequestHash:    m.RequestHash,
		Response:       m.Response,
		StatusCode:     m.StatusCode,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}
