package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vampirenirmal/codesmith/internal/core"
)

func fastRetry(maxAttempts int) core.RetryPolicy {
	return core.RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Multiplier:  2.0,
		MaxDelay:    10 * time.Millisecond,
	}
}

func TestRetryFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryExhaustionWrapsLastError(t *testing.T) {
	sentinel := errors.New("upstream down")
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryHonorsContextDuringBackoff(t *testing.T) {
	policy := core.RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Hour,
		Multiplier:  2.0,
		MaxDelay:    time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func() error {
			calls++
			return errors.New("always fails")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestRetryBackoffDelaySchedule(t *testing.T) {
	policy := core.RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   20 * time.Millisecond,
		Multiplier:  2.0,
		MaxDelay:    time.Second,
	}

	start := time.Now()
	_ = policy.Do(context.Background(), func() error {
		return errors.New("fail")
	})
	elapsed := time.Since(start)

	// Two sleeps: 20ms + 40ms.
	if elapsed < 60*time.Millisecond {
		t.Errorf("backoff too short: %v", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("backoff too long: %v", elapsed)
	}
}
