package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !strings.HasPrefix(hash, "pbkdf2:sha256:") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "empty", stored: ""},
		{name: "missing parts", stored: "pbkdf2:sha256:260000$saltonly"},
		{name: "wrong method", stored: "bcrypt:sha256:260000$salt$abcdef"},
		{name: "bad iterations", stored: "pbkdf2:sha256:zero$salt$abcdef"},
		{name: "bad hex digest", stored: "pbkdf2:sha256:260000$salt$not-hex!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword(tt.stored, "anything") {
				t.Error("malformed hash should never validate")
			}
		})
	}
}

func TestCheckPasswordLegacyIterationCount(t *testing.T) {
	// A hash generated with a different iteration count must still verify
	digest := pbkdf2.Key([]byte("secret"), []byte("fixedsalt"), 1000, 32, sha256.New)
	stored := "pbkdf2:sha256:1000$fixedsalt$" + hex.EncodeToString(digest)
	if !CheckPassword(stored, "secret") {
		t.Error("hash with non-default iteration count rejected")
	}
}
