package output

import "time"

// PasswordHasher is the verified-credential boundary.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
	// Parse verifies token and returns its subject.
	Parse(token string) (userID string, err error)
}
