// Package repository is the relational datastore behind the auth and data
// functions. Every query is scoped by the owning user's id.
package repository

import (
	"context"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = gorm.ErrRecordNotFound
	ErrDuplicate = gorm.ErrDuplicatedKey
)

// upsertBatchSize bounds the rows per INSERT statement.
const upsertBatchSize = 100

// Repository wraps a gorm handle, either the pool or an open transaction.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn against a transaction-bound Repository. The transaction is
// committed when fn returns nil and rolled back otherwise, including on panic.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Ping checks that the datastore answers.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
