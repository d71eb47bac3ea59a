package middleware

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
)

// Roles carried in AuthClaims.Roles.
const (
	RoleRateAdmin       = "fx_admin"
	RoleGlobalRuleAdmin = "fx_global_admin"
)

// ClaimsAuthorizationGate authorizes writes from the roles AuthMiddleware put in the context.
type ClaimsAuthorizationGate struct{}

var _ gateways.AuthorizationGate = ClaimsAuthorizationGate{}

// AuthorizeRateAdmin allows tenant admins acting on their own tenant, and global admins.
func (ClaimsAuthorizationGate) AuthorizeRateAdmin(ctx context.Context, tenantID, userID string) error {
	roles := RolesFromCtx(ctx)
	if slices.Contains(roles, RoleGlobalRuleAdmin) {
		return nil
	}
	callerTenant, _ := TenantIDFromCtx(ctx)
	if callerTenant != tenantID {
		return fmt.Errorf("%w: user %s does not belong to tenant %s", apperrors.ErrForbidden, userID, tenantID)
	}
	if !slices.Contains(roles, RoleRateAdmin) {
		return fmt.Errorf("%w: user %s lacks role %s", apperrors.ErrForbidden, userID, RoleRateAdmin)
	}
	return nil
}

// AuthorizeGlobalRuleAdmin allows only global admins.
func (ClaimsAuthorizationGate) AuthorizeGlobalRuleAdmin(ctx context.Context, userID string) error {
	if !slices.Contains(RolesFromCtx(ctx), RoleGlobalRuleAdmin) {
		return fmt.Errorf("%w: user %s lacks role %s", apperrors.ErrForbidden, userID, RoleGlobalRuleAdmin)
	}
	return nil
}
