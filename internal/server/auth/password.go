package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost matches bcrypt's standard work factor.
const DefaultHashCost = 10

// HashPassword returns the bcrypt hash of raw at the given cost. bcrypt
// generates a fresh random salt per call, so equal passwords hash differently.
func HashPassword(raw string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultHashCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether raw matches the stored bcrypt hash. The
// comparison is constant-time inside bcrypt.
func CheckPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
