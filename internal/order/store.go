package order

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Store lookups that find no matching record.
var ErrNotFound = errors.New("order: not found")

// Store is the transactional boundary around Order's local state. Mutate
// runs fn inside a single local transaction, matching the consume-process-
// publish contract: the handler's state write and its "have I already seen
// this saga" check happen atomically.
type Store interface {
	Create(ctx context.Context, o *Order) error
	FindBySagaID(ctx context.Context, sagaID string) (*Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	Mutate(ctx context.Context, sagaID string, fn func(o *Order) error) error
}

// GormStore is the default relational Store, backed by gorm.io/gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db, migrating the Order table if it doesn't exist yet.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Order{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, o *Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *GormStore) FindBySagaID(ctx context.Context, sagaID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Where("saga_id = ?", sagaID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) FindByOrderID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Mutate loads the order for sagaID, runs fn against it, and saves the
// result, all inside one transaction — the Go equivalent of the original
// service's @Transactional method boundary.
func (s *GormStore) Mutate(ctx context.Context, sagaID string, fn func(o *Order) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Where("saga_id = ?", sagaID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&o); err != nil {
			return err
		}
		return tx.Save(&o).Error
	})
}
