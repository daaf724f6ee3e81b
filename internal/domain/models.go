// Package domain defines the persistence models for users, ads, the
// classification catalog and conversation threads. These types are mapped
// with GORM and form the core data layer of the Friend App.
package domain

import (
	"time"
)

// User is a registered account. The credential is stored only as a bcrypt
// hash and is never serialized.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique login and display name.
//   - PasswordHash: bcrypt hash, hidden from JSON.
//   - Age / Bio: optional profile data (NULL when unset).
//   - Image: optional JPEG blob, hidden from JSON (served separately).
type User struct {
	ID           string    `json:"id"       gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(255);not null"`
	Age          *int      `json:"age,omitempty"`
	Bio          *string   `json:"bio,omitempty" gorm:"type:text"`
	Image        []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Ad is a classified-ad style post owned by exactly one user. The table keeps
// the historical name "messages".
//
// SearchText holds the case-folded title and description and is rewritten on
// every insert/update so substring search is case-insensitive for all scripts.
type Ad struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(50);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Age         int       `json:"age"         gorm:"not null"`
	UserID      string    `json:"user_id"     gorm:"type:char(36);not null;index:idx_ads_user"`
	SearchText  string    `json:"-"           gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `json:"created_at"  gorm:"index:idx_ads_created"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Ad.
func (Ad) TableName() string { return "messages" }

// Class is one permitted (title, value) combination of the classification
// catalog. The auto-increment ID defines catalog order.
type Class struct {
	ID    uint   `json:"-"     gorm:"primaryKey"`
	Title string `json:"title" gorm:"type:varchar(64);not null;uniqueIndex:ux_classes_title_value,priority:1"`
	Value string `json:"value" gorm:"type:varchar(64);not null;uniqueIndex:ux_classes_title_value,priority:2"`
}

// TableName returns the database table name for Class.
func (Class) TableName() string { return "classes" }

// AdTag attaches a catalog (title, value) pair to an Ad.
type AdTag struct {
	ID    uint   `gorm:"primaryKey"`
	AdID  string `gorm:"column:message_id;type:char(36);not null;index:idx_tags_ad"`
	Title string `gorm:"type:varchar(64);not null"`
	Value string `gorm:"type:varchar(64);not null"`

	Ad Ad `gorm:"foreignKey:AdID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AdTag.
func (AdTag) TableName() string { return "message_classes" }

// Thread is a two-party conversation about one Ad.
//
// The participant pair is stored canonically (User1ID < User2ID) and the
// composite unique index ux_thread_ad_pair guarantees at most one thread per
// (ad, unordered pair). InitiatorID records who opened the conversation.
type Thread struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AdID        string    `json:"ad_id"        gorm:"type:char(36);not null;uniqueIndex:ux_thread_ad_pair,priority:1"`
	User1ID     string    `json:"user1_id"     gorm:"type:char(36);not null;uniqueIndex:ux_thread_ad_pair,priority:2;index:idx_threads_user1"`
	User2ID     string    `json:"user2_id"     gorm:"type:char(36);not null;uniqueIndex:ux_thread_ad_pair,priority:3;index:idx_threads_user2"`
	InitiatorID string    `json:"initiator_id" gorm:"type:char(36);not null"`
	CreatedAt   time.Time `json:"created_at"`

	Ad Ad `json:"-" gorm:"foreignKey:AdID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Thread.
func (Thread) TableName() string { return "threads" }

// HasParticipant reports whether userID is one of the thread's two users.
func (t *Thread) HasParticipant(userID string) bool {
	return t != nil && userID != "" && (t.User1ID == userID || t.User2ID == userID)
}

// OtherParticipant returns the participant that is not userID.
func (t *Thread) OtherParticipant(userID string) string {
	if t.User1ID == userID {
		return t.User2ID
	}
	return t.User1ID
}

// ThreadMessage is one chat message inside a Thread. The auto-increment ID
// breaks ties between messages sharing a timestamp.
type ThreadMessage struct {
	ID         uint      `json:"id"           gorm:"primaryKey"`
	ThreadID   string    `json:"thread_id"    gorm:"type:char(36);not null;index:idx_thread_msgs,priority:1"`
	SenderID   string    `json:"sender_id"    gorm:"type:char(36);not null"`
	Content    string    `json:"content"      gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"   gorm:"index:idx_thread_msgs,priority:2"`
	ReadByUser bool      `json:"read_by_user" gorm:"not null;default:false"`

	Thread Thread `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ThreadMessage.
func (ThreadMessage) TableName() string { return "thread_messages" }

// CanonicalPair orders two user ids so the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
