package security

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a one-way salted bcrypt hash of the password.
// Plaintext passwords are never stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// bcrypt's comparison is constant-time on the derived key.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
