package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by PasswordHasher.Compare when the password
// does not match the stored value.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher turns a password into its stored form and checks candidates
// against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) error
}

// BcryptHasher stores bcrypt hashes. Passwords are reduced to the base64 of
// their SHA-256 first, so inputs past bcrypt's 72 byte limit are accepted and
// every byte of them counts.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a BcryptHasher, falling back to bcrypt.DefaultCost
// when cost is out of range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(stored, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), prehash(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// PlaintextHasher stores passwords as given and compares them byte for byte.
// Only for deployments that need to read credentials written by older
// versions of the app.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Compare(stored, password string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// NewPasswordHasher picks the hasher named by storage ("bcrypt" or "plaintext").
func NewPasswordHasher(storage string, bcryptCost int) (PasswordHasher, error) {
	switch storage {
	case "", "bcrypt":
		return NewBcryptHasher(bcryptCost), nil
	case "plaintext":
		return PlaintextHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password storage %q", storage)
	}
}
