package service

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// The credential store: slow salted one-way hashing via bcrypt. Raw
// passwords are never stored, logged or returned.

// dummyHash is compared against when a login names an unknown user, so the
// failure takes the same time as a real mismatch and cannot be used to
// enumerate accounts.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("credential-store-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTempPassword returns a 16-character random password for invited
// admins. It is handed out exactly once; only its hash is persisted.
func generateTempPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	for i, b := range buf {
		buf[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(buf), nil
}
