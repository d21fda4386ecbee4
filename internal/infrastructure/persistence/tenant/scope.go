// Package tenant provides multi-tenant database scoping for GORM.
//
// The tenant is read from the request context established by tenantctx, and
// every query issued through WithContext carries WHERE tenant_id = ?.
//
// Usage:
//
//	db := tenant.NewTenantDB(gormDB)
//	db.WithContext(ctx).Find(&products) // WHERE tenant_id = 'xxx' is auto-added
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantScope applies tenant filtering to GORM queries
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID.String())
	}
}

// TenantDB wraps GORM DB with automatic tenant scoping
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB creates a new TenantDB
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// FromContext returns the tenant of the current request scope.
func FromContext(ctx context.Context) (uuid.UUID, error) {
	raw, ok := tenantctx.TenantID(ctx)
	if !ok {
		return uuid.Nil, ErrTenantIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTenantID
	}
	return id, nil
}

// WithContext returns a GORM DB scoped to the tenant from context.
// Without a valid tenant the returned DB errors on any operation.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tenantID, err := FromContext(ctx)
	if err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(err)
		return db
	}
	return t.db.WithContext(ctx).Scopes(TenantScope(tenantID))
}

// Unscoped returns the DB bound to ctx without tenant filtering.
// Only lookups that must cross tenants, such as invitation tokens, use it.
func (t *TenantDB) Unscoped(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

// Transaction executes fn within a transaction scoped to the context tenant
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx.Scopes(TenantScope(tenantID)))
	})
}
