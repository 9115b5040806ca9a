package test

import (
	"math/rand"
	"sync"
	"time"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomASCIIString returns a pseudo-random ASCII string of length n.
func RandomASCIIString(n int) string {
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	rngMu.Lock()
	for i := range buf {
		buf[i] = asciiLetters[rng.Intn(len(asciiLetters))]
	}
	rngMu.Unlock()
	return string(buf)
}

// Date builds a UTC midnight time for test fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FixedClock returns a clock function frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
