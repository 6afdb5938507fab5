package failure

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := New(NotFound, "load records", "data/catalysis.json", os.ErrNotExist)
	wrapped := fmt.Errorf("run report: %w", base)
	if !Is(wrapped, NotFound) {
		t.Fatalf("expected NotFound kind, got %v", KindOf(wrapped))
	}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Fatalf("expected wrapped error to match os.ErrNotExist")
	}
	if got := wrapped.Error(); got != "run report: load records data/catalysis.json: file does not exist" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != 0 {
		t.Fatalf("expected zero kind for plain error")
	}
	if Is(nil, Render) {
		t.Fatalf("nil error must not carry a kind")
	}
}

func TestErrorWithoutPath(t *testing.T) {
	err := New(Render, "correlation", "", ErrDegenerate)
	if err.Error() != "correlation: fewer than two numeric columns" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate in chain")
	}
	if Render.String() != "render" {
		t.Fatalf("unexpected kind name %q", Render.String())
	}
}
