package session

import (
	"context"
	"testing"
)

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "u-1"})

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Fatalf("expected principal in context")
	}
	if p.UserID != "u-1" {
		t.Fatalf("expected u-1, got %q", p.UserID)
	}
	if UserID(ctx) != "u-1" {
		t.Fatalf("expected UserID helper to return u-1")
	}
}

func TestPrincipalMissing(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatalf("expected no principal")
	}
	ctx := WithPrincipal(context.Background(), Principal{})
	if _, ok := PrincipalFromContext(ctx); ok {
		t.Fatalf("empty principal must not count as authenticated")
	}
}
