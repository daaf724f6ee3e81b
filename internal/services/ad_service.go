// Package services – AdService
//
// AdService owns the lifecycle of ads (stored in the historical "messages"
// table): creation with catalog-validated tags, owner-only updates that
// replace the whole tag set, cascading removal, listing and search.
//
// Every multi-row write runs in a single transaction.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
)

const (
	maxAdTitleRunes = 50
	maxAdDescRunes  = 1000
)

// ClassProvider supplies the classification catalog used to validate tags
// and reads the tags attached to an ad.
type ClassProvider interface {
	AllClasses(ctx context.Context) (domain.ClassCatalog, error)
	TagsOf(ctx context.Context, adID string) ([]domain.Tag, error)
}

// AdService coordinates ad persistence.
type AdService struct {
	DB      *gorm.DB
	Catalog ClassProvider
}

// NewAdService constructs an AdService.
func NewAdService(db *gorm.DB, catalog ClassProvider) *AdService {
	return &AdService{DB: db, Catalog: catalog}
}

// Add creates an ad owned by ownerID and attaches tags. Nothing is written
// when any tag is outside the catalog.
func (s *AdService) Add(ctx context.Context, title, description string, age int, ownerID string, tags []domain.Tag) (*domain.Ad, error) {
	ctx, span := otel.Tracer("services/AdService").Start(ctx, "Add",
		trace.WithAttributes(attribute.String("user.id", ownerID), attribute.Int("tags", len(tags))))
	defer span.End()

	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if err := validateAd(title, description, age); err != nil {
		return nil, err
	}
	tags, err := s.checkTags(ctx, tags)
	if err != nil {
		return nil, err
	}

	var out *domain.Ad
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.CreateAd(ctx, tx, title, description, age, ownerID)
		if err != nil {
			return err
		}
		if err := repo.InsertAdTags(ctx, tx, a.ID, tags); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns an ad with its owner's username.
func (s *AdService) Get(ctx context.Context, id string) (*domain.AdDetail, error) {
	d, err := repo.GetAdDetail(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return d, err
}

// Update replaces title, description and the entire tag set. Only the owner
// may update; an empty tags slice clears all tags.
func (s *AdService) Update(ctx context.Context, id, callerID, title, description string, tags []domain.Tag) error {
	ctx, span := otel.Tracer("services/AdService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("ad.id", id), attribute.String("user.id", callerID)))
	defer span.End()

	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if err := validateAdText(title, description); err != nil {
		return err
	}
	tags, err := s.checkTags(ctx, tags)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateAdText(ctx, tx, id, callerID, title, description); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := repo.DeleteAdTags(ctx, tx, id); err != nil {
			return err
		}
		return repo.InsertAdTags(ctx, tx, id, tags)
	})
}

// Remove deletes an ad with its tags, threads and thread messages, children
// first. Only the owner may remove an ad.
func (s *AdService) Remove(ctx context.Context, id, callerID string) error {
	ctx, span := otel.Tracer("services/AdService").Start(ctx, "Remove",
		trace.WithAttributes(attribute.String("ad.id", id), attribute.String("user.id", callerID)))
	defer span.End()

	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteAdTags(ctx, tx, id); err != nil {
			return err
		}
		n, err := repo.DeleteThreadsForAd(ctx, tx, id)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64("threads.removed", n))
		if err := repo.DeleteAd(ctx, tx, id, callerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
}

// Search returns ads whose title or description contains query,
// case-insensitively, newest first. A blank query yields no results.
func (s *AdService) Search(ctx context.Context, query string) ([]domain.AdSummary, error) {
	return repo.SearchAds(ctx, s.DB, query)
}

// ListAll returns every ad, newest first.
func (s *AdService) ListAll(ctx context.Context) ([]domain.AdSummary, error) {
	return repo.ListAds(ctx, s.DB)
}

// ListByUser returns the ads owned by userID, newest first.
func (s *AdService) ListByUser(ctx context.Context, userID string) ([]domain.AdSummary, error) {
	return repo.ListAdsByUser(ctx, s.DB, userID)
}

// Tags returns the tags of an ad in insertion order.
func (s *AdService) Tags(ctx context.Context, id string) ([]domain.Tag, error) {
	return s.Catalog.TagsOf(ctx, id)
}

// FeedStats returns the ad count and latest update time, for cache validators.
func (s *AdService) FeedStats(ctx context.Context) (int64, *time.Time, error) {
	return repo.AdsStats(ctx, s.DB)
}

// owned loads an ad and checks that callerID owns it.
func (s *AdService) owned(ctx context.Context, id, callerID string) (*domain.Ad, error) {
	a, err := repo.GetAd(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.UserID != callerID {
		return nil, ErrForbidden
	}
	return a, nil
}

// checkTags validates every tag against the catalog and drops exact repeats.
func (s *AdService) checkTags(ctx context.Context, tags []domain.Tag) ([]domain.Tag, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	cat, err := s.Catalog.AllClasses(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[domain.Tag]struct{}, len(tags))
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if !cat.Allows(t.Title, t.Value) {
			return nil, ErrInvalidTag
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func validateAd(title, description string, age int) error {
	if age < 1 || age > maxAge {
		return ErrValidation
	}
	return validateAdText(title, description)
}

func validateAdText(title, description string) error {
	if title == "" || utf8.RuneCountInString(title) > maxAdTitleRunes {
		return ErrValidation
	}
	if description == "" || utf8.RuneCountInString(description) > maxAdDescRunes {
		return ErrValidation
	}
	return nil
}
