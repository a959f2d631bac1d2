package util

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used until SetPasswordCost is called.
const DefaultPasswordCost = 12

var passwordCost = DefaultPasswordCost

// SetPasswordCost overrides the bcrypt cost, normally from BCRYPT_COST at
// startup. Values outside bcrypt's supported range fall back to the default.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	passwordCost = cost
}

// HashPassword hashes a plain text password with the configured cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain text password matches the hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
