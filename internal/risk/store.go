package risk

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no assessment exists for a sagaId.
var ErrNotFound = errors.New("risk: not found")

// Store is the transactional boundary around Risk's local state.
type Store interface {
	Create(ctx context.Context, a *Assessment) error
	FindBySagaID(ctx context.Context, sagaID string) (*Assessment, error)
	Mutate(ctx context.Context, sagaID string, fn func(a *Assessment) error) error
}

// GormStore is the default relational Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db, migrating the Assessment table if needed.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Assessment{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, a *Assessment) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *GormStore) FindBySagaID(ctx context.Context, sagaID string) (*Assessment, error) {
	var a Assessment
	err := s.db.WithContext(ctx).Where("saga_id = ?", sagaID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) Mutate(ctx context.Context, sagaID string, fn func(a *Assessment) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a Assessment
		if err := tx.Where("saga_id = ?", sagaID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&a); err != nil {
			return err
		}
		return tx.Save(&a).Error
	})
}
