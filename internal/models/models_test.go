package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "nickname set",
			user: User{Username: "taro", Nickname: "Taro T."},
			want: "Taro T.",
		},
		{
			name: "nickname empty",
			user: User{Username: "taro"},
			want: "taro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDailyProgressAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		progress DailyProgress
		want     float64
	}{
		{
			name:     "perfect accuracy",
			progress: DailyProgress{Total: 100, Correct: 100},
			want:     100.0,
		},
		{
			name:     "half correct",
			progress: DailyProgress{Total: 100, Correct: 50},
			want:     50.0,
		},
		{
			name:     "no attempts",
			progress: DailyProgress{},
			want:     0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.progress.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}
