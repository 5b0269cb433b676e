package payment

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no transaction exists for a sagaId.
var ErrNotFound = errors.New("payment: not found")

// Store is the transactional boundary around Payment's local state.
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	FindBySagaID(ctx context.Context, sagaID string) (*Transaction, error)
	Mutate(ctx context.Context, sagaID string, fn func(t *Transaction) error) error
}

// GormStore is the default relational Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db, migrating the Transaction table if needed.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Transaction{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, t *Transaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) FindBySagaID(ctx context.Context, sagaID string) (*Transaction, error) {
	var t Transaction
	err := s.db.WithContext(ctx).Where("saga_id = ?", sagaID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) Mutate(ctx context.Context, sagaID string, fn func(t *Transaction) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		if err := tx.Where("saga_id = ?", sagaID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		return tx.Save(&t).Error
	})
}
