package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

// create inserts row and fills in its generated id
func create[T any](ctx context.Context, db *gorm.DB, e entity, row *T) error {
	return translate(db.WithContext(ctx).Create(row).Error, e)
}

// find loads one row by primary key
func find[T any](ctx context.Context, db *gorm.DB, e entity, id uint) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err, e)
	}
	return &row, nil
}

// replace overwrites the listed columns of row id, zero values included.
// A missing row is reported as NOT_FOUND.
func replace[T any](ctx context.Context, db *gorm.DB, e entity, id uint, row *T, columns []string) error {
	res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select(columns).Updates(row)
	if res.Error != nil {
		return translate(res.Error, e)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(e.name + " not found")
	}
	return nil
}

// remove hard deletes row id; a missing row is reported as NOT_FOUND
func remove[T any](ctx context.Context, db *gorm.DB, e entity, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error, e)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(e.name + " not found")
	}
	return nil
}

// scanOne runs a joined view query expected to match a single row
func scanOne[V any](q *gorm.DB, e entity) (*V, error) {
	var rows []V
	if err := q.Limit(1).Scan(&rows).Error; err != nil {
		return nil, translate(err, e)
	}
	if len(rows) == 0 {
		return nil, domain.NotFound(e.name + " not found")
	}
	return &rows[0], nil
}

// scanAll runs a joined view query, never returning a nil slice
func scanAll[V any](q *gorm.DB, e entity) ([]V, error) {
	rows := []V{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err, e)
	}
	return rows, nil
}
