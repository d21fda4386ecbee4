package persistence

import (
	"errors"

	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ErrTenantMismatch is returned when a write targets a tenant other than the one in context
var ErrTenantMismatch = errors.New("entity tenant does not match context tenant")

// translateError maps driver errors onto domain sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// paginate applies the filter's ordering and page window and returns the total row count.
// Scopes apply to the page query only.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}
	err := base.
		Scopes(scopes...).
		Order(orderClause(filter.OrderBy, filter.OrderDir, allowed, defaultField)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(dest).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
