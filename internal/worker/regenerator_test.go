package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dcakery/standingd/internal/domain/model"
	testhelpers "github.com/dcakery/standingd/internal/test"
	"github.com/dcakery/standingd/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewRegeneratorDefaults(t *testing.T) {
	reg := NewRegenerator(&testhelpers.WorkerFacadeStub{}, time.Second, 10, 0, testLogger())
	if reg.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", reg.workers)
	}
}

func TestRegeneratorDisabledWithZeroInterval(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{Standing: [][]model.StandingOrder{{{ID: 1}}}}
	reg := NewRegenerator(facade, 0, 10, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	reg.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Regenerated) != 0 {
		t.Fatalf("expected no regeneration when disabled, got %v", facade.Regenerated)
	}
}

func TestRegeneratorRegeneratesActiveStandingOrders(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{Standing: [][]model.StandingOrder{{{ID: 1}, {ID: 2}}}}
	reg := NewRegenerator(facade, 10*time.Millisecond, 14, 2, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		done := len(facade.Regenerated) >= 2
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for regeneration")
		case <-time.After(10 * time.Millisecond):
		}
	}
	reg.Stop()

	facade.Lock()
	defer facade.Unlock()
	seen := map[int64]bool{}
	for _, id := range facade.Regenerated {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected both standing orders regenerated, got %v", facade.Regenerated)
	}
}

func TestRegeneratorPassesDaysAhead(t *testing.T) {
	var gotDays int32
	facade := &testhelpers.WorkerFacadeStub{
		Standing: [][]model.StandingOrder{{{ID: 1}}},
		RegenerateFn: func(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error) {
			atomic.StoreInt32(&gotDays, int32(daysAhead))
			return usecase.GenerationResult{}, nil
		},
	}
	reg := NewRegenerator(facade, 10*time.Millisecond, 21, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&gotDays) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for regeneration")
		case <-time.After(10 * time.Millisecond):
		}
	}
	reg.Stop()

	if got := atomic.LoadInt32(&gotDays); got != 21 {
		t.Fatalf("expected days ahead 21, got %d", got)
	}
}

func TestRegeneratorContinuesAfterFailure(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{
		Standing: [][]model.StandingOrder{{{ID: 1}, {ID: 2}}},
		RegenerateFn: func(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error) {
			if id == 1 {
				return usecase.GenerationResult{}, errors.New("boom")
			}
			return usecase.GenerationResult{Created: 1}, nil
		},
	}
	reg := NewRegenerator(facade, 10*time.Millisecond, 10, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		done := len(facade.Regenerated) >= 2
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for regeneration")
		case <-time.After(10 * time.Millisecond):
		}
	}
	reg.Stop()
}
