package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := Retryable(errors.New("connection reset"))
	permanent := errors.New("bad request")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 3, 0, nil, 1, false},
		{"recovers after transient", 3, 2, transient, 3, false},
		{"exhausts attempts", 2, 5, transient, 2, true},
		{"permanent not retried", 3, 5, permanent, 1, true},
		{"zero attempts means one", 0, 5, transient, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("Retry() calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return Retryable(errors.New("timeout"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("Retry() calls = %d, want 1", calls)
	}
}

func TestRetryableError(t *testing.T) {
	base := errors.New("boom")
	err := Retryable(base)

	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
	if !errors.Is(err, base) {
		t.Error("Retryable should unwrap to the cause")
	}
	if IsRetryable(base) {
		t.Error("IsRetryable(plain) = true, want false")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestDefaultPolicy(t *testing.T) {
	calls := 0
	_ = DefaultPolicy.Do(context.Background(), func() error {
		calls++
		return Retryable(errors.New("down"))
	})
	if calls != 1 {
		t.Errorf("DefaultPolicy calls = %d, want 1", calls)
	}
}
