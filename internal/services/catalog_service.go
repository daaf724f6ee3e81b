// Package services – CatalogService
//
// CatalogService exposes the classification catalog (the permitted
// (title, value) pairs ads can be tagged with) and the tags of a given ad.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
)

// CatalogService reads the classification catalog.
type CatalogService struct {
	DB *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// AllClasses returns the catalog with titles and values in first-seen order.
func (s *CatalogService) AllClasses(ctx context.Context) (domain.ClassCatalog, error) {
	rows, err := repo.ListClasses(ctx, s.DB)
	if err != nil {
		return domain.ClassCatalog{}, err
	}
	return domain.NewClassCatalog(rows), nil
}

// TagsOf returns the tags of an ad in insertion order.
func (s *CatalogService) TagsOf(ctx context.Context, adID string) ([]domain.Tag, error) {
	return repo.ListAdTags(ctx, s.DB, adID)
}

// ParseTag splits the "title:value" form encoding of a tag. Both parts must
// be non-empty after trimming.
func ParseTag(s string) (domain.Tag, error) {
	title, value, ok := strings.Cut(s, ":")
	title, value = strings.TrimSpace(title), strings.TrimSpace(value)
	if !ok || title == "" || value == "" {
		return domain.Tag{}, ErrValidation
	}
	return domain.Tag{Title: title, Value: value}, nil
}
