package planlimit

import (
	"fmt"

	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/shared"
)

const codeForbidden = "FORBIDDEN"

// Rejections that come from how the call was made rather than from quota usage.
var (
	ErrAuthenticationRequired = shared.NewDomainError(codeForbidden, "Authentication required to perform this action")
	ErrTenantContextRequired  = shared.ErrTenantRequired
	ErrTenantNotFound         = shared.NewDomainError(codeForbidden, "Tenant not found")
)

// ErrLimitReached builds the rejection for a tenant at its quota ceiling.
func ErrLimitReached(limit billing.LimitType, max int64) *shared.DomainError {
	return shared.NewDomainError(codeForbidden,
		fmt.Sprintf("%s limit reached (%d). Upgrade your plan.", limit.DisplayName(), max))
}

// IsForbidden reports whether err is a gate rejection.
func IsForbidden(err error) bool {
	return shared.IsForbidden(err)
}
