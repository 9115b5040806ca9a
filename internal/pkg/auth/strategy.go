package auth

import "time"

// Strategy issues and verifies bearer tokens for a named subject.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

// Options tunes token issuance.
type Options struct {
	TTL time.Duration
}
