package firestore

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapErrorClassification(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		wantNotFound bool
		wantConflict bool
	}{
		{name: "not found", err: status.Error(codes.NotFound, "missing"), wantNotFound: true},
		{name: "already exists", err: status.Error(codes.AlreadyExists, "dup"), wantConflict: true},
		{name: "aborted transaction", err: status.Error(codes.Aborted, "contention"), wantConflict: true},
		{name: "failed precondition", err: status.Error(codes.FailedPrecondition, "stale"), wantConflict: true},
		{name: "plain failure", err: errors.New("boom")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := WrapError("responses.get", tc.err)
			var classified *Error
			if !errors.As(wrapped, &classified) {
				t.Fatalf("expected *Error, got %T", wrapped)
			}
			if classified.IsNotFound() != tc.wantNotFound {
				t.Errorf("IsNotFound = %v, want %v", classified.IsNotFound(), tc.wantNotFound)
			}
			if classified.IsConflict() != tc.wantConflict {
				t.Errorf("IsConflict = %v, want %v", classified.IsConflict(), tc.wantConflict)
			}
			if IsNotFound(wrapped) != tc.wantNotFound {
				t.Errorf("package IsNotFound = %v, want %v", IsNotFound(wrapped), tc.wantNotFound)
			}
			if !errors.Is(wrapped, tc.err) {
				t.Error("wrapped error should unwrap to the original")
			}
		})
	}
}

func TestWrapErrorPassesContextErrorsThrough(t *testing.T) {
	if got := WrapError("responses.list", context.Canceled); !errors.Is(got, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", got)
	}
	if got := WrapError("responses.list", context.DeadlineExceeded); !errors.Is(got, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", got)
	}
	var wrapped *Error
	if errors.As(WrapError("responses.list", context.Canceled), &wrapped) {
		t.Fatal("context cancellation must not be classified as a storage error")
	}
}

func TestWrapErrorTranslatesGRPCCancellation(t *testing.T) {
	got := WrapError("stats.increment", status.Error(codes.DeadlineExceeded, "took too long"))
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", got)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if got := WrapError("responses.get", nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
