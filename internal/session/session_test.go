package session

import (
	"testing"
	"time"
)

func TestValidAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{ExpiresAt: now.Add(time.Hour)}

	if !sess.ValidAt(now) {
		t.Fatal("session expiring in an hour should be valid")
	}
	if sess.ValidAt(now.Add(time.Hour)) {
		t.Fatal("session is invalid exactly at expiry")
	}
	if sess.ValidAt(now.Add(2 * time.Hour)) {
		t.Fatal("expired session should be invalid")
	}

	var nilSess *Session
	if nilSess.ValidAt(now) {
		t.Fatal("nil session is never valid")
	}
}

func TestNearExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		remaining time.Duration
		want      bool
	}{
		{time.Hour, false},
		{RefreshThreshold, false},
		{RefreshThreshold - time.Second, true},
		{time.Minute, true},
		{-time.Minute, true},
	}
	for _, tc := range cases {
		sess := &Session{ExpiresAt: now.Add(tc.remaining)}
		if got := sess.NearExpiry(now); got != tc.want {
			t.Errorf("remaining %v: NearExpiry = %v, want %v", tc.remaining, got, tc.want)
		}
	}
}
