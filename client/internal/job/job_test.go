package job

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestFunc_NilGuard(t *testing.T) {
	t.Parallel()
	var f Func
	if err := f.Run(context.Background()); !errors.Is(err, ErrNilFunc) {
		t.Fatalf("expected ErrNilFunc, got %v", err)
	}
}

func TestFunc_RunPropagatesError(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("boom")
	if err := New(func(context.Context) error { return sentinel }).Run(context.Background()); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
}

func TestLabel_DeterministicAndBounded(t *testing.T) {
	t.Parallel()
	for _, id := range []string{"", "ext1", "ext2", "a-much-longer-external-identifier"} {
		a, b := Label(id), Label(id)
		if a != b {
			t.Fatalf("Label not deterministic for %q", id)
		}
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 || n >= labelBuckets {
			t.Fatalf("Label out of range for %q: %s", id, a)
		}
	}
}
