package credential

import (
	"fmt"
	"strings"
)

// Hasher hashes and verifies member credentials.
type Hasher interface {
	// Hash returns a fresh token for plain. Two calls never return the same token.
	Hash(plain string) (string, error)
	// Verify reports whether plain matches token. It fails closed.
	Verify(plain, token string) bool
	// Owns reports whether token was produced by this algorithm.
	Owns(token string) bool
}

// limited is implemented by hashers that only accept passwords up to a
// fixed length.
type limited interface {
	MaxPasswordBytes() int
}

// MaxPasswordBytes returns the longest password h can hash, or 0 when h has
// no limit.
func MaxPasswordBytes(h Hasher) int {
	if l, ok := h.(limited); ok {
		return l.MaxPasswordBytes()
	}
	return 0
}

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// New returns a Multi hasher whose primary is the named algorithm and that
// still verifies tokens of every other supported algorithm.
func New(algorithm string) (*Multi, error) {
	b := NewBcrypt(0)
	a := NewArgon2id(DefaultArgon2idParams())

	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewMulti(b, a), nil
	case AlgorithmArgon2id:
		return NewMulti(a, b), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// Multi hashes with its primary hasher and verifies with whichever hasher
// owns the token.
type Multi struct {
	primary Hasher
	others  []Hasher
}

func NewMulti(primary Hasher, others ...Hasher) *Multi {
	return &Multi{primary: primary, others: others}
}

func (m *Multi) Hash(plain string) (string, error) {
	return m.primary.Hash(plain)
}

// MaxPasswordBytes is the primary hasher's limit.
func (m *Multi) MaxPasswordBytes() int {
	return MaxPasswordBytes(m.primary)
}

func (m *Multi) Verify(plain, token string) bool {
	for _, h := range append([]Hasher{m.primary}, m.others...) {
		if h.Owns(token) {
			return h.Verify(plain, token)
		}
	}
	return false
}

func (m *Multi) Owns(token string) bool {
	for _, h := range append([]Hasher{m.primary}, m.others...) {
		if h.Owns(token) {
			return true
		}
	}
	return false
}
