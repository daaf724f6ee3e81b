// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ad model
// (table "messages") and its classification tags.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// FoldText returns the Unicode case-folded form used for ad search.
func FoldText(s string) string {
	return cases.Fold().String(s)
}

func searchText(title, description string) string {
	return FoldText(title + "\n" + description)
}

// escapeLike escapes LIKE wildcards so they match literally with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// CreateAd inserts a new Ad owned by userID.
func CreateAd(ctx context.Context, db *gorm.DB, title, description string, age int, userID string) (*domain.Ad, error) {
	now := time.Now().UTC()
	a := &domain.Ad{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Age:         age,
		UserID:      userID,
		SearchText:  searchText(title, description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Omit("Owner").Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetAd fetches an Ad by id.
func GetAd(ctx context.Context, db *gorm.DB, id string) (*domain.Ad, error) {
	var a domain.Ad
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAdDetail fetches an Ad with the owner's username.
func GetAdDetail(ctx context.Context, db *gorm.DB, id string) (*domain.AdDetail, error) {
	var out domain.AdDetail
	res := db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.title, m.description, m.age, m.user_id, u.username AS owner_username, m.created_at, m.updated_at").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.id = ?", id).
		Limit(1).
		Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &out, nil
}

// UpdateAdText replaces title and description of an Ad owned by userID.
// It returns ErrNotFound when no row matches both id and owner.
func UpdateAdText(ctx context.Context, db *gorm.DB, id, userID, title, description string) error {
	res := db.WithContext(ctx).
		Model(&domain.Ad{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":       title,
			"description": description,
			"search_text": searchText(title, description),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAd removes the Ad row scoped by both id and owner. Children must be
// removed first (see DeleteAdTags, DeleteThreadsForAd).
func DeleteAd(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Ad{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func listAdSummaries(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]domain.AdSummary, error) {
	out := []domain.AdSummary{}
	q := db.WithContext(ctx).Model(&domain.Ad{}).Select("id, title, created_at")
	if scope != nil {
		q = scope(q)
	}
	err := q.Order("created_at DESC, id DESC").Scan(&out).Error
	return out, err
}

// ListAds returns every Ad, newest first.
func ListAds(ctx context.Context, db *gorm.DB) ([]domain.AdSummary, error) {
	return listAdSummaries(ctx, db, nil)
}

// ListAdsByUser returns the Ads owned by userID, newest first.
func ListAdsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.AdSummary, error) {
	return listAdSummaries(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// SearchAds returns Ads whose title or description contains query,
// case-insensitively, newest first. A blank query returns no rows.
func SearchAds(ctx context.Context, db *gorm.DB, query string) ([]domain.AdSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.AdSummary{}, nil
	}
	pattern := "%" + escapeLike(FoldText(query)) + "%"
	return listAdSummaries(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	})
}

// InsertAdTags attaches tags to an Ad in the given order.
func InsertAdTags(ctx context.Context, db *gorm.DB, adID string, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]domain.AdTag, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, domain.AdTag{AdID: adID, Title: t.Title, Value: t.Value})
	}
	return db.WithContext(ctx).Omit("Ad").Create(&rows).Error
}

// DeleteAdTags removes every tag of an Ad.
func DeleteAdTags(ctx context.Context, db *gorm.DB, adID string) error {
	return db.WithContext(ctx).Where("message_id = ?", adID).Delete(&domain.AdTag{}).Error
}

// ListAdTags returns the tags of an Ad in insertion order.
func ListAdTags(ctx context.Context, db *gorm.DB, adID string) ([]domain.Tag, error) {
	out := []domain.Tag{}
	err := db.WithContext(ctx).
		Model(&domain.AdTag{}).
		Select("title, value").
		Where("message_id = ?", adID).
		Order("id ASC").
		Scan(&out).Error
	return out, err
}
