package auth

import (
	"testing"
	"time"
)

func TestCookieTokenRoundTrip(t *testing.T) {
	token, err := IssueCookieToken("staff@example.org", "sess-1", "msdbc-records", "test-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseCookieToken(token, "test-key", "msdbc-records")
	if err != nil {
		t.Fatal(err)
	}
	if claims.SessionID != "sess-1" || claims.Subject != "staff@example.org" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestCookieTokenRejectsWrongKey(t *testing.T) {
	token, err := IssueCookieToken("staff@example.org", "sess-1", "msdbc-records", "test-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCookieToken(token, "other-key", "msdbc-records"); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestCookieTokenRejectsIssuerMismatch(t *testing.T) {
	token, err := IssueCookieToken("staff@example.org", "sess-1", "someone-else", "test-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCookieToken(token, "test-key", "msdbc-records"); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestCookieTokenRejectsExpired(t *testing.T) {
	token, err := IssueCookieToken("staff@example.org", "sess-1", "msdbc-records", "test-key", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCookieToken(token, "test-key", "msdbc-records"); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}
