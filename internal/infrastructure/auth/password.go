package auth

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes passwords and verification codes with bcrypt.
// bcrypt salts every hash, so equal inputs produce distinct digests.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using the bcrypt default cost
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt digest of plain
func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether plain matches the stored digest
func (h *BcryptHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
