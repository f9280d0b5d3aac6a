package models

import "time"

// IdempotencyKey caches the first successful outcome of a scoped mutation.
// The unique index on (organization_id, scope_key) serializes concurrent
// writers carrying the same key.
type IdempotencyKey struct {
	OrganizationID string    `db:"organization_id"`
	ScopeKey       string    `db:"scope_key"`
	RequestHash    string    `db:"request_hash"`
	Response       []byte    `db:"response"` // JSONB, replayed verbatim
	StatusCode     int       `db:"status_code"`
	CreatedAt      time.Time `db:"created_at"`
	CreatedBy      string    `db:"created_by"`
}
