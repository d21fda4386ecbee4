package persistence

import (
	"context"
	"strings"

	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *tenant.TenantDB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *tenant.TenantDB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindAll lists the members of the context tenant
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", keyword, keyword)
	}

	var rows []models.UserModel
	total, err := paginate(query, filter, UserSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, total, nil
}

// ExistsByEmail checks whether the context tenant has a member with the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// FindByInviteToken finds a pending invitation across tenants
func (r *GormUserRepository) FindByInviteToken(ctx context.Context, token string) (*identity.User, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var model models.UserModel
	if err := r.db.Unscoped(ctx).Where("invite_token = ?", token).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a member. The row keeps the tenant recorded on the entity.
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	return translateError(r.db.Unscoped(ctx).Save(&model).Error)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
