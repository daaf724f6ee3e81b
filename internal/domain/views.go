package domain

import "time"

// AdSummary is the feed/search projection of an Ad.
type AdSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// AdDetail is an Ad with its owner's username joined.
type AdDetail struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Age           int       `json:"age"`
	UserID        string    `json:"user_id"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MessageView is a ThreadMessage with the sender's username joined.
type MessageView struct {
	ID         uint      `json:"id"`
	ThreadID   string    `json:"thread_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ReadByUser bool      `json:"read_by_user"`
}

// ThreadSummary is one row of a user's inbox: the thread seen from that
// user's side.
type ThreadSummary struct {
	ID          string    `json:"id"`
	AdID        string    `json:"ad_id"`
	AdTitle     string    `json:"ad_title"`
	PartnerID   string    `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	Unread      int64     `json:"unread"`
	CreatedAt   time.Time `json:"created_at"`
}

// ThreadOverview is a thread of an Ad with both participants' usernames.
type ThreadOverview struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	User1ID   string    `json:"user1_id"`
	User1Name string    `json:"user1_name"`
	User2ID   string    `json:"user2_id"`
	User2Name string    `json:"user2_name"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCount is the number of unread messages addressed to a user in one thread.
type UnreadCount struct {
	ThreadID string `json:"thread_id"`
	Count    int64  `json:"count"`
}
