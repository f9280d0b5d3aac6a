package models

// User represents a person who can sign in.
type User struct {
	UserID       string `db:"user_id"`
	Email        string `db:"email"` // Unique across the system
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
