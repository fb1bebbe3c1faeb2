package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// HashPassword returns the bcrypt hash of a plaintext password.
// The plaintext is never stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash, using bcrypt's own constant-time comparison.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
