package test

import (
	"context"
	"errors"
	"sync"

	"github.com/dcakery/standingd/internal/domain/model"
	pkgAuth "github.com/dcakery/standingd/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "admin", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// NotifierStub records orders announced through the notification hook.
type NotifierStub struct {
	mu     sync.Mutex
	Err    error
	Orders []string
	Done   chan struct{}
}

// OrderGenerated records the order number and signals Done when set.
func (s *NotifierStub) OrderGenerated(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	s.Orders = append(s.Orders, order.Number)
	s.mu.Unlock()
	if s.Done != nil {
		select {
		case s.Done <- struct{}{}:
		default:
		}
	}
	return s.Err
}

// Notified returns a copy of recorded order numbers.
func (s *NotifierStub) Notified() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Orders...)
}

// HealthCheckerStub reports configurable storage health.
type HealthCheckerStub struct {
	Err error
}

func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
