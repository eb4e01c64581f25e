package gormstore

import (
	"context"

	"gorm.io/gorm"
)

// table is the typed access shared by every row kind: lookup by id, filtered listing, bulk insert.
// Only active rows are visible.
type table[T any] struct {
	db   *gorm.DB
	name string
}

func tableOf[T any](db *gorm.DB, name string) table[T] {
	return table[T]{db: db, name: name}
}

func (t table[T]) scope(ctx context.Context) *gorm.DB {
	var zero T
	return t.db.WithContext(ctx).Model(&zero).Where("active = ?", true)
}

func (t table[T]) get(ctx context.Context, id string) (*T, error) {
	var row T
	if err := t.scope(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err, t.name+" "+id)
	}
	return &row, nil
}

func (t table[T]) find(ctx context.Context, order string, query any, args ...any) ([]T, error) {
	var rows []T
	q := t.scope(ctx).Where(query, args...)
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "list "+t.name)
	}
	return rows, nil
}

func (t table[T]) insert(ctx context.Context, rows ...*T) error {
	for _, r := range rows {
		if err := t.db.WithContext(ctx).Create(r).Error; err != nil {
			return translate(err, "create "+t.name)
		}
	}
	return nil
}

func (t table[T]) insertAll(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := t.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return translate(err, "create "+t.name)
	}
	return nil
}

// purge hard-deletes every row matching the condition.
func (t table[T]) purge(ctx context.Context, query any, args ...any) error {
	var zero T
	if err := t.db.WithContext(ctx).Where(query, args...).Delete(&zero).Error; err != nil {
		return translate(err, "delete "+t.name)
	}
	return nil
}
