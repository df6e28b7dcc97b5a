package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestUploadLimiter_SlotAccounting(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)
	ctx := context.Background()

	check := func(step string, active, available int) {
		t.Helper()
		if got := limiter.ActiveCount(); got != active {
			t.Errorf("%s: ActiveCount = %d, want %d", step, got, active)
		}
		if got := limiter.Available(); got != available {
			t.Errorf("%s: Available = %d, want %d", step, got, available)
		}
	}

	check("initial", 0, 2)

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	check("one held", 1, 1)

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire with a free slot should succeed")
	}
	check("both held", 2, 0)

	if limiter.TryAcquire() {
		t.Fatal("TryAcquire with no free slot should fail")
	}

	limiter.Release()
	limiter.Release()
	check("released", 0, 2)
}

func TestUploadLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewUploadLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("Acquire on full limiter = %v, want ErrTooManyUploads", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire gave up after %v, want about 50ms", elapsed)
	}
	if got := MapError(err).Code; got != "UPL002" {
		t.Errorf("MapError(ErrTooManyUploads).Code = %q, want UPL002", got)
	}
}

func TestUploadLimiter_CallerCancellation(t *testing.T) {
	limiter := NewUploadLimiter(1, 5*time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire after cancel = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestUploadLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewUploadLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer limiter.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > maxConcurrent {
		t.Errorf("peak concurrency = %d, max %d", p, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)
	ctx := context.Background()
	_ = limiter.Acquire(ctx)
	_ = limiter.Acquire(ctx)

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	for i := 0; i < 2; i++ {
		select {
		case <-done:
			t.Fatalf("WaitForDrain returned with %d slots held", 2-i)
		case <-time.After(30 * time.Millisecond):
		}
		limiter.Release()
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return once drained")
	}
}

func TestUploadLimiter_WaitForDrainCancelled(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Second)
	_ = limiter.Acquire(context.Background())
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain = %v, want context.DeadlineExceeded", err)
	}
}

func TestUploadLimiter_Status(t *testing.T) {
	limiter := NewUploadLimiter(3, time.Second)
	_ = limiter.Acquire(context.Background())
	defer limiter.Release()

	want := UploadLimiterStatus{Active: 1, Available: 2, MaxConcurrent: 3}
	if got := limiter.Status(); got != want {
		t.Errorf("Status() = %+v, want %+v", got, want)
	}
}

func TestUploadLimiter_Defaults(t *testing.T) {
	limiter := NewUploadLimiter(0, 0)
	if got := limiter.MaxConcurrent(); got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
	if limiter.maxWait != DefaultMaxWaitTime {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, DefaultMaxWaitTime)
	}
}
