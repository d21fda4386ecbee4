package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupTenantDB(t *testing.T) (*gorm.DB, *tenant.TenantDB) {
	db := setupTestDB(t)
	return db, tenant.NewTenantDB(db)
}

func ctxFor(tenantID uuid.UUID) context.Context {
	return tenantctx.With(context.Background(), tenantctx.RequestContext{
		TenantID: tenantID.String(),
		UserID:   uuid.NewString(),
	})
}
