// Package auth implements credential hashing and access tokens.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"sportmeet/internal/ports/output"
)

var _ output.PasswordHasher = (*Hasher)(nil)

// Hasher hashes passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt Hasher; cost 0 selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
