package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	if !gen.ValidateToken("session-abc", token) {
		t.Error("token should validate for its own session")
	}
	if gen.ValidateToken("session-xyz", token) {
		t.Error("token should not validate for a different session")
	}
	if gen.ValidateToken("session-abc", "forged") {
		t.Error("forged token should not validate")
	}
}

func TestCSRFTokenRequiresSession(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("expected error for empty session ID")
	}
	if gen.ValidateToken("", "anything") {
		t.Error("empty session ID should never validate")
	}
}

func TestCSRFTokenDiffersBySecret(t *testing.T) {
	a, _ := NewCSRFGenerator("secret-a").GenerateToken("session")
	b, _ := NewCSRFGenerator("secret-b").GenerateToken("session")
	if a == b {
		t.Error("different secrets should produce different tokens")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("a different IP should have its own bucket")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.168.1.5:54321",
			want:       "192.168.1.5",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
