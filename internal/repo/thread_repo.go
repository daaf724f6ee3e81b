// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for conversation
// threads. Participant pairs are always stored canonically
// (user1_id < user2_id), so lookups never need to try both orders.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// FindThreadByPair returns the thread for (adID, {a, b}) in either order, or
// ErrNotFound.
func FindThreadByPair(ctx context.Context, db *gorm.DB, adID, a, b string) (*domain.Thread, error) {
	u1, u2 := domain.CanonicalPair(a, b)
	var t domain.Thread
	err := db.WithContext(ctx).
		Where("ad_id = ? AND user1_id = ? AND user2_id = ?", adID, u1, u2).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateThread inserts a thread between initiator and other about adID.
// A concurrent insert of the same (ad, pair) yields ErrDuplicate.
func CreateThread(ctx context.Context, db *gorm.DB, adID, initiatorID, otherID string) (*domain.Thread, error) {
	u1, u2 := domain.CanonicalPair(initiatorID, otherID)
	t := &domain.Thread{
		ID:          uuid.NewString(),
		AdID:        adID,
		User1ID:     u1,
		User2ID:     u2,
		InitiatorID: initiatorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Omit("Ad").Create(t).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return t, nil
}

// GetThread fetches a thread by id.
func GetThread(ctx context.Context, db *gorm.DB, id string) (*domain.Thread, error) {
	var t domain.Thread
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteThreadsForAd removes every thread of adID with its messages and the
// idempotency records of sends into it, children first. It returns the number
// of threads removed.
func DeleteThreadsForAd(ctx context.Context, db *gorm.DB, adID string) (int64, error) {
	sub := db.Model(&domain.Thread{}).Select("id").Where("ad_id = ?", adID)
	for _, child := range []any{&domain.Idempotency{}, &domain.ThreadMessage{}} {
		if err := db.WithContext(ctx).Where("thread_id IN (?)", sub).Delete(child).Error; err != nil {
			return 0, err
		}
	}
	res := db.WithContext(ctx).Where("ad_id = ?", adID).Delete(&domain.Thread{})
	return res.RowsAffected, res.Error
}

// ListThreadsForUser returns the user's inbox, newest first: each thread with
// the ad title, the other participant and the count of unread messages sent
// to userID.
func ListThreadsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.ThreadSummary, error) {
	out := []domain.ThreadSummary{}
	err := db.WithContext(ctx).Raw(`
SELECT t.id, t.ad_id, m.title AS ad_title,
       CASE WHEN t.user1_id = @uid THEN t.user2_id ELSE t.user1_id END AS partner_id,
       CASE WHEN t.user1_id = @uid THEN u2.username ELSE u1.username END AS partner_name,
       (SELECT COUNT(*) FROM thread_messages tm
         WHERE tm.thread_id = t.id AND tm.sender_id <> @uid AND tm.read_by_user = @unread) AS unread,
       t.created_at
FROM threads t
JOIN users u1 ON u1.id = t.user1_id
JOIN users u2 ON u2.id = t.user2_id
JOIN messages m ON m.id = t.ad_id
WHERE t.user1_id = @uid OR t.user2_id = @uid
ORDER BY t.created_at DESC, t.id DESC`,
		map[string]any{"uid": userID, "unread": false},
	).Scan(&out).Error
	return out, err
}

// ListThreadsForAd returns every thread of adID with both participants'
// usernames, newest first.
func ListThreadsForAd(ctx context.Context, db *gorm.DB, adID string) ([]domain.ThreadOverview, error) {
	out := []domain.ThreadOverview{}
	err := db.WithContext(ctx).
		Table("threads AS t").
		Select("t.id, t.ad_id, t.user1_id, u1.username AS user1_name, t.user2_id, u2.username AS user2_name, t.created_at").
		Joins("JOIN users u1 ON u1.id = t.user1_id").
		Joins("JOIN users u2 ON u2.id = t.user2_id").
		Where("t.ad_id = ?", adID).
		Order("t.created_at DESC, t.id DESC").
		Scan(&out).Error
	return out, err
}
