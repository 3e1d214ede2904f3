package middleware

import (
	"context"

	"github.com/openshelf/library-api/internal/models"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, ident models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(models.Identity)
	return ident, ok
}
