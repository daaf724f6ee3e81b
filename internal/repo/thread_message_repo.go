// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for messages
// inside conversation threads.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
)

// CreateThreadMessage appends an unread message to a thread.
func CreateThreadMessage(ctx context.Context, db *gorm.DB, threadID, senderID, content string) (*domain.ThreadMessage, error) {
	m := &domain.ThreadMessage{
		ThreadID:   threadID,
		SenderID:   senderID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		ReadByUser: false,
	}
	if err := db.WithContext(ctx).Omit("Thread").Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetThreadMessage fetches a message by id.
func GetThreadMessage(ctx context.Context, db *gorm.DB, id uint) (*domain.ThreadMessage, error) {
	var m domain.ThreadMessage
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListThreadMessages returns a thread's messages with sender usernames,
// ordered deterministically (created_at ASC, id ASC).
func ListThreadMessages(ctx context.Context, db *gorm.DB, threadID string) ([]domain.MessageView, error) {
	out := []domain.MessageView{}
	err := db.WithContext(ctx).
		Table("thread_messages AS tm").
		Select("tm.id, tm.thread_id, tm.sender_id, u.username AS sender_name, tm.content, tm.created_at, tm.read_by_user").
		Joins("LEFT JOIN users u ON u.id = tm.sender_id").
		Where("tm.thread_id = ?", threadID).
		Order("tm.created_at ASC, tm.id ASC").
		Scan(&out).Error
	return out, err
}

// MarkThreadRead flags every unread message in threadID not sent by readerID
// as read. It returns the number of rows changed.
func MarkThreadRead(ctx context.Context, db *gorm.DB, threadID, readerID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.ThreadMessage{}).
		Where("thread_id = ? AND sender_id <> ? AND read_by_user = ?", threadID, readerID, false).
		Update("read_by_user", true)
	return res.RowsAffected, res.Error
}

// UnreadCounts returns, per thread the user participates in, the number of
// unread messages sent by the other participant. Threads with nothing unread
// are omitted.
func UnreadCounts(ctx context.Context, db *gorm.DB, userID string) ([]domain.UnreadCount, error) {
	out := []domain.UnreadCount{}
	err := db.WithContext(ctx).
		Table("thread_messages AS tm").
		Select("tm.thread_id, COUNT(*) AS count").
		Joins("JOIN threads t ON t.id = tm.thread_id").
		Where("(t.user1_id = ? OR t.user2_id = ?) AND tm.sender_id <> ? AND tm.read_by_user = ?", userID, userID, userID, false).
		Group("tm.thread_id").
		Order("tm.thread_id ASC").
		Scan(&out).Error
	return out, err
}
