package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 600000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// HashPassword derives a PBKDF2-SHA256 hash in the form
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>". The format matches
// hashes produced by common web frameworks so existing accounts keep
// working after a migration.
func HashPassword(password string) (string, error) {
	saltBytes := make([]byte, saltLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	digest := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, salt, hex.EncodeToString(digest)), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(stored, password string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}

	method, salt, want := parts[0], parts[1], parts[2]
	fields := strings.Split(method, ":")
	if len(fields) != 3 || fields[0] != "pbkdf2" || fields[1] != "sha256" {
		return false
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil || iterations <= 0 {
		return false
	}

	wantBytes, err := hex.DecodeString(want)
	if err != nil {
		return false
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(wantBytes), sha256.New)
	return subtle.ConstantTimeCompare(digest, wantBytes) == 1
}
