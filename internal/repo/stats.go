// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// AdsStats returns the number of ads and the latest UpdatedAt among them.
// maxUpdatedAt is nil when there are no ads.
func AdsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Ad{})
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Order+Limit instead of MAX(): SQLite returns MAX() of a datetime as TEXT.
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.Ad{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ThreadMessagesStats returns, for one thread, the message count, the count
// of read messages and the newest CreatedAt. The read count changes when a
// thread is marked read, so it belongs in cache validators.
func ThreadMessagesStats(ctx context.Context, db *gorm.DB, threadID string) (count, read int64, maxCreatedAt *time.Time, err error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.ThreadMessage{}).Where("thread_id = ?", threadID)
	}
	if err = base().Count(&count).Error; err != nil {
		return 0, 0, nil, err
	}
	if count == 0 {
		return 0, 0, nil, nil
	}
	if err = base().Where("read_by_user = ?", true).Count(&read).Error; err != nil {
		return 0, 0, nil, err
	}
	var row struct {
		CreatedAt time.Time
	}
	if err = base().Select("created_at").Order("created_at DESC, id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, nil, err
	}
	return count, read, &row.CreatedAt, nil
}
