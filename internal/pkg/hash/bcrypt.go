package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes passwords. The pepper is appended to the plaintext and lives
// in configuration only.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt falls back to bcrypt.DefaultCost when cost is out of range.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash returns the bcrypt hash of plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify reports whether plaintext matches hashed.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
