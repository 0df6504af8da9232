package authctx

import (
	"context"
	"testing"
)

func TestFrom_EmptyContext(t *testing.T) {
	if _, ok := From(context.Background()); ok {
		t.Fatalf("expected no identity")
	}
}

func TestCanAccess_SelfOnly(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "u1"})

	if !CanAccess(ctx, "u1") {
		t.Fatalf("expected self access")
	}
	if CanAccess(ctx, "u2") {
		t.Fatalf("expected no cross-user access")
	}
}

func TestCanAccess_Admin(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "admin", Admin: true})

	if !CanAccess(ctx, "u2") {
		t.Fatalf("expected admin access to any user")
	}
}

func TestCanAccess_NoIdentity(t *testing.T) {
	if CanAccess(context.Background(), "u1") {
		t.Fatalf("expected no access without identity")
	}
}
