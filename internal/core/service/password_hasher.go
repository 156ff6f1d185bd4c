package service

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements ports.PasswordHasher on top of bcrypt, which salts
// every digest and compares in constant time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; cost <= 0 selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify folds every failure, including a malformed digest, into false.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
