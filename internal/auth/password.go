package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCredential hashes a password or PIN for storage.
func HashCredential(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(b), nil
}

func CheckCredential(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
