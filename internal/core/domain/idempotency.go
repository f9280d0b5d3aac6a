package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyKey caches the outcome of the first successful execution of a
// scoped mutating operation. It is written once, read on retries, and never
// mutated; expiry is an external concern.
type IdempotencyKey struct {
	OrganizationID string          `json:"organizationID"`
	ScopeKey       string          `json:"scopeKey"`    // operation + client token + actor, unique per org
	RequestHash    string          `json:"requestHash"` // SHA-256 of the canonical request payload
	Response       json.RawMessage `json:"response"`    // Cached response body, returned verbatim on replay
	StatusCode     int             `json:"statusCode"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}
