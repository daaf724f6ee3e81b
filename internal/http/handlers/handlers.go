// Package handlers wires HTTP endpoints to the application services.
//
// Handlers are transport-thin: they bind and validate input, resolve the
// caller from the verified bearer token, call a service and translate the
// result (including conditional 304 responses) into HTTP.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/http/middleware"
	"github.com/tbourn/friend-app/internal/services"
	"github.com/tbourn/friend-app/internal/utils"
)

//
// Service contracts (context-aware)
//

// UserService manages accounts and profiles.
type UserService interface {
	Create(ctx context.Context, username, password string, age *int, bio *string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	Get(ctx context.Context, id string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, id string, age *int, bio *string) error
	UpdateImage(ctx context.Context, id string, image []byte) error
	Image(ctx context.Context, id string) ([]byte, error)
	Ads(ctx context.Context, id string) ([]domain.AdSummary, error)
}

// TokenIssuer mints bearer tokens after registration and login.
type TokenIssuer interface {
	Issue(userID, username string) (token string, expiresAt time.Time, err error)
}

// CatalogService exposes the classification catalog.
type CatalogService interface {
	AllClasses(ctx context.Context) (domain.ClassCatalog, error)
}

// AdService manages ads and their tags.
type AdService interface {
	Add(ctx context.Context, title, description string, age int, ownerID string, tags []domain.Tag) (*domain.Ad, error)
	Get(ctx context.Context, id string) (*domain.AdDetail, error)
	Update(ctx context.Context, id, callerID, title, description string, tags []domain.Tag) error
	Remove(ctx context.Context, id, callerID string) error
	Search(ctx context.Context, query string) ([]domain.AdSummary, error)
	ListAll(ctx context.Context) ([]domain.AdSummary, error)
	Tags(ctx context.Context, id string) ([]domain.Tag, error)
	FeedStats(ctx context.Context) (int64, *time.Time, error)
}

// ThreadService is the conversation engine.
type ThreadService interface {
	Start(ctx context.Context, adID, requesterID string) (*domain.Thread, error)
	ListMessages(ctx context.Context, threadID, requesterID string) ([]domain.MessageView, error)
	SendOnce(ctx context.Context, threadID, senderID, content, key string) (*domain.ThreadMessage, bool, error)
	MarkRead(ctx context.Context, threadID, readerID string) (int64, error)
	ListForUser(ctx context.Context, userID string) ([]domain.ThreadSummary, error)
	UnreadSummary(ctx context.Context, userID string) (*services.UnreadSummary, error)
	ThreadsForAd(ctx context.Context, adID string) ([]domain.ThreadOverview, error)
	MessagesStats(ctx context.Context, threadID string) (count, read int64, last *time.Time, err error)
}

//
// Handler wiring
//

// Handlers groups every API endpoint.
type Handlers struct {
	users   UserService
	tokens  TokenIssuer
	catalog CatalogService
	ads     AdService
	threads ThreadService
}

// New constructs Handlers bound to the given services.
func New(users UserService, tokens TokenIssuer, catalog CatalogService, ads AdService, threads ThreadService) *Handlers {
	return &Handlers{users: users, tokens: tokens, catalog: catalog, ads: ads, threads: threads}
}

// callerID returns the authenticated user id ("" when anonymous).
func callerID(c *gin.Context) string { return middleware.UserID(c) }

// pageParams reads page and page_size from the query string.
func pageParams(c *gin.Context) (page, size int) {
	return utils.Clamp(c.Query("page"), c.Query("page_size"))
}

// weakETag joins parts into a weak validator such as W/"ads:3:1700000000".
func weakETag(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return `W/"` + strings.Join(s, ":") + `"`
}

// unixOrZero returns t as Unix nanoseconds, or 0 when t is nil.
func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

// notModified sets the ETag header and answers 304 when If-None-Match
// matches it. Weak comparison is used, as for GET requests.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	inm := c.GetHeader("If-None-Match")
	if inm == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, cand := range strings.Split(inm, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || strings.TrimPrefix(cand, "W/") == want {
			c.Status(http.StatusNotModified)
			return true
		}
	}
	return false
}
