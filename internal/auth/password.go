package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes        = 16
	pbkdf2Iterations = 100_000
	derivedKeyBytes  = 32
	hashSeparator    = "$"
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 record of the form
// "<hex salt>$<hex key>". Every call draws a fresh salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	key := derive(password, saltHex)

	return saltHex + hashSeparator + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches record. Malformed records
// never match. Records in bcrypt format are accepted for accounts created
// before the PBKDF2 scheme.
func VerifyPassword(password, record string) bool {
	if isBcrypt(record) {
		return bcrypt.CompareHashAndPassword([]byte(record), []byte(password)) == nil
	}

	saltHex, keyHex, ok := strings.Cut(record, hashSeparator)
	if !ok || saltHex == "" || keyHex == "" || strings.Contains(keyHex, hashSeparator) {
		return false
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != derivedKeyBytes {
		return false
	}

	return subtle.ConstantTimeCompare(derive(password, saltHex), expected) == 1
}

// The salt is used in its hex form so records stay interchangeable with the
// ones already stored by the previous backend.
func derive(password, saltHex string) []byte {
	return pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Iterations, derivedKeyBytes, sha256.New)
}

func isBcrypt(record string) bool {
	return strings.HasPrefix(record, "$2a$") ||
		strings.HasPrefix(record, "$2b$") ||
		strings.HasPrefix(record, "$2y$")
}
