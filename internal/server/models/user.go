package models

import "time"

// User is a registered identity. Email is the unique, case-sensitive key.
// PasswordHash is produced by auth.PasswordHasher; the raw password never
// reaches this struct.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
