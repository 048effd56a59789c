// Package identity owns credential hashing for user accounts.
package identity

import "golang.org/x/crypto/bcrypt"

// UnusablePassword marks an account created without a password. It never
// matches any input.
const UnusablePassword = "!"

// Hasher turns plain-text passwords into stored credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher hashes with bcrypt at the configured cost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher, falling back to bcrypt.DefaultCost when
// cost is out of range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt hash, or UnusablePassword for an empty password.
func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return UnusablePassword, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash.
func (h BcryptHasher) Compare(hash, password string) bool {
	if hash == UnusablePassword || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
