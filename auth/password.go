package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the lowercase hex SHA-256 digest of plain.
// The digest is unsalted, so equal passwords produce equal hashes.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Hasher turns plaintext passwords into stored hashes and checks them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
	// Deterministic reports whether Hash always returns the same output for
	// the same input, which allows lookups by stored hash.
	Deterministic() bool
}

type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) { return HashPassword(plain), nil }

func (SHA256Hasher) Verify(hash, plain string) bool {
	want := HashPassword(plain)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(want)) == 1
}

func (SHA256Hasher) Deterministic() bool { return true }

type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (BcryptHasher) Deterministic() bool { return false }

// NewHasher resolves a hasher by its configuration name.
func NewHasher(kind string) (Hasher, error) {
	switch strings.ToLower(kind) {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}
