package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewHMACStrategy_DefaultTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy == nil {
		t.Fatal("expected strategy instance")
	}
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken("admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	subject, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if subject != "admin" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestHMACStrategy_RejectsInvalidSubject(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
	if _, err := strategy.IssueToken("a|b"); err == nil {
		t.Fatal("expected error for subject containing separator")
	}
}

func TestHMACStrategy_ParseFailures(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})

	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"wrong sections", base64.StdEncoding.EncodeToString([]byte("admin|123"))},
		{"bad signature", base64.StdEncoding.EncodeToString([]byte("admin|123|bogus"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := strategy.ParseToken(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_RejectsTamperedExpiry(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken("admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(token)
	parts := strings.Split(string(raw), "|")
	parts[1] = fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix())
	tampered := base64.StdEncoding.EncodeToString([]byte(strings.Join(parts, "|")))

	if _, err := strategy.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered expiry, got %v", err)
	}
}

func TestHMACStrategy_RejectsExpiredToken(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	expires := time.Now().Add(-time.Minute).Unix()
	payload := fmt.Sprintf("admin|%d", expires)
	token := base64.StdEncoding.EncodeToString([]byte(payload + "|" + strategy.sign(payload)))

	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if got := NewHMACStrategy("secret", Options{}).Name(); got != "hmac" {
		t.Fatalf("unexpected name %q", got)
	}
}
