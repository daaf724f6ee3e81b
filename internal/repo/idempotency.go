package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// GetIdempotency finds the live send record for (user, thread, key). Blank
// thread or key, a missing row and an expired row all report ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, threadID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(threadID) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	rec := new(domain.Idempotency)
	q := db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "thread_id": threadID, "key": key}).
		Where("expires_at > ?", now)
	switch err := q.Take(rec).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return rec, nil
}

// CreateIdempotency remembers which message a key produced for ttl. A second
// record for the same tuple is ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, threadID, key string, messageID uint, status int, ttl time.Duration) (*domain.Idempotency, error) {
	created := time.Now().UTC()
	rec := domain.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		ThreadID:  threadID,
		Key:       key,
		MessageID: messageID,
		Status:    status,
		CreatedAt: created,
		ExpiresAt: created.Add(ttl),
	}
	err := db.WithContext(ctx).Create(&rec).Error
	switch {
	case isDuplicate(err):
		return nil, ErrDuplicate
	case err != nil:
		return nil, err
	}
	return &rec, nil
}

// PurgeExpiredIdempotency removes every record expired at now and reports how
// many went.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
