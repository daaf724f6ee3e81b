// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Functions are context-aware and accept a *gorm.DB handle so they can run
// inside a caller's transaction. Missing rows surface as ErrNotFound and
// unique-constraint violations as ErrDuplicate; everything else is the raw
// GORM error.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// CreateUser inserts a new user with the given bcrypt hash. A taken username
// yields ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, username, passwordHash string, age *int, bio *string) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Age:          age,
		Bio:          bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by id without the image blob.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Omit("image").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by exact username, including the password hash.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Omit("image").
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserHasImage reports whether the user has a non-empty image stored.
func UserHasImage(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND image IS NOT NULL AND LENGTH(image) > 0", id).
		Count(&n).Error
	return n > 0, err
}

// UpdateUserProfile replaces age and bio. Nil clears the column.
func UpdateUserProfile(ctx context.Context, db *gorm.DB, id string, age *int, bio *string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"age":        age,
			"bio":        bio,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserImage replaces the stored image bytes.
func UpdateUserImage(ctx context.Context, db *gorm.DB, id string, image []byte) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"image":      image,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserImage returns the image bytes, or ErrNotFound when the user is
// missing or has no image.
func GetUserImage(ctx context.Context, db *gorm.DB, id string) ([]byte, error) {
	var row struct {
		Image []byte
	}
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Select("image").
		Where("id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(row.Image) == 0 {
		return nil, ErrNotFound
	}
	return row.Image, nil
}
