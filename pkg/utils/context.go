package utils

import (
	"context"

	"github.com/basshamut/gruastremart-core-api/pkg/contextkeys"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

// GetIdentityFromCtx extracts the RequestIdentity the auth middleware
// resolved for this request.
func GetIdentityFromCtx(ctx context.Context) (contextkeys.RequestIdentity, error) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(contextkeys.RequestIdentity)
	if !ok || identity.UserID == "" {
		return contextkeys.RequestIdentity{}, apperrors.ErrIdentityNotFoundInContext
	}
	return identity, nil
}
