package authctx

import "context"

type Identity struct {
	UserID string
	Admin  bool
}

type ctxKeyIdentity struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

func From(ctx context.Context) (Identity, bool) {
	v := ctx.Value(ctxKeyIdentity{})
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// CanAccess reports whether the caller may operate on userID's records.
// Admins may operate on anyone; other callers only on themselves.
func CanAccess(ctx context.Context, userID string) bool {
	id, ok := From(ctx)
	if !ok {
		return false
	}
	return id.Admin || id.UserID == userID
}
