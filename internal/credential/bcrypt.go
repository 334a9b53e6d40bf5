package credential

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt produces $2a$ tokens; the cost factor is embedded in the token.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A cost outside bcrypt's range selects
// bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// bcryptMaxPassword is the input length bcrypt accepts.
const bcryptMaxPassword = 72

func (b *Bcrypt) MaxPasswordBytes() int { return bcryptMaxPassword }

func (b *Bcrypt) Hash(plain string) (string, error) {
	pw := secret(plain)
	defer wipe(pw)

	out, err := bcrypt.GenerateFromPassword(pw, b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

func (b *Bcrypt) Verify(plain, token string) bool {
	if !b.Owns(token) {
		return false
	}
	pw := secret(plain)
	defer wipe(pw)

	return bcrypt.CompareHashAndPassword([]byte(token), pw) == nil
}

func (b *Bcrypt) Owns(token string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}
