package posgrest

import (
	"context"

	"gorm.io/gorm"
)

// repository is a generic GORM-based repository implementation.
// It provides the plain reads and writes shared by the settlement stores.
type repository[T interface{}] struct {
	db *gorm.DB
}

// New creates a new generic repository instance for type T.
func New[T interface{}](db *gorm.DB) *repository[T] {
	return &repository[T]{
		db,
	}
}

// WithTx returns a copy bound to an open transaction.
func (r *repository[T]) WithTx(tx *gorm.DB) *repository[T] {
	return &repository[T]{tx}
}

// Create inserts a new entity into the database.
func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetByID retrieves a single entity by its ID.
func (r *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetBy retrieves entities matching a specific field value.
// The key parameter is the condition, and value is the value to match.
func (r *repository[T]) GetBy(ctx context.Context, key string, value interface{}) (*[]T, error) {
	var entity []T
	if err := r.db.WithContext(ctx).Where(key, value).Find(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}
