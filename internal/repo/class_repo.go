// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// classification catalog.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/friend-app/internal/domain"
)

// ListClasses returns every catalog row in catalog order (by id).
func ListClasses(ctx context.Context, db *gorm.DB) ([]domain.Class, error) {
	var out []domain.Class
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// SeedClasses inserts catalog rows, skipping (title, value) pairs that
// already exist. It returns the number of rows inserted.
func SeedClasses(ctx context.Context, db *gorm.DB, rows []domain.Tag) (int64, error) {
	var inserted int64
	for _, r := range rows {
		res := db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.Class{Title: r.Title, Value: r.Value})
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += res.RowsAffected
	}
	return inserted, nil
}
