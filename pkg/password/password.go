// Package password isolates the credential digest behind an interface so
// the algorithm can be swapped without touching callers.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Verifier interface {
	Hash(password string) (string, error)
	Matches(password, digest string) bool
}

// SHA256Verifier produces an unsalted, deterministic hex digest and
// compares case-insensitively. Weak against rainbow tables; kept as the
// default contract, with BcryptVerifier as the drop-in upgrade.
type SHA256Verifier struct{}

func NewSHA256Verifier() *SHA256Verifier {
	return &SHA256Verifier{}
}

func (v *SHA256Verifier) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (v *SHA256Verifier) Matches(password, digest string) bool {
	if digest == "" {
		return false
	}
	computed, _ := v.Hash(password)
	return strings.EqualFold(computed, digest)
}

// BcryptVerifier is the salted alternative, selectable by config.
type BcryptVerifier struct {
	cost int
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{cost: bcrypt.DefaultCost}
}

func (v *BcryptVerifier) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

func (v *BcryptVerifier) Matches(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// New selects a verifier by algorithm name, defaulting to sha256.
func New(algorithm string) Verifier {
	if strings.EqualFold(algorithm, "bcrypt") {
		return NewBcryptVerifier()
	}
	return NewSHA256Verifier()
}
