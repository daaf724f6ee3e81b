package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/auth"
	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/http/middleware"
	"github.com/tbourn/friend-app/internal/services"
)

// ---------- stubs ----------

type stubUsers struct {
	create      func(username, password string) (*domain.User, error)
	authn       func(username, password string) (string, error)
	updateImage func(id string, image []byte) error
	image       []byte
}

func (s stubUsers) Create(_ context.Context, username, password string, _ *int, _ *string) (*domain.User, error) {
	return s.create(username, password)
}
func (s stubUsers) Authenticate(_ context.Context, username, password string) (string, error) {
	return s.authn(username, password)
}
func (stubUsers) Get(_ context.Context, id string) (*services.Profile, error) {
	return &services.Profile{ID: id, Username: "alice"}, nil
}
func (stubUsers) UpdateProfile(context.Context, string, *int, *string) error { return nil }
func (s stubUsers) UpdateImage(_ context.Context, id string, image []byte) error {
	return s.updateImage(id, image)
}
func (s stubUsers) Image(context.Context, string) ([]byte, error) {
	if s.image == nil {
		return nil, services.ErrNotFound
	}
	return s.image, nil
}
func (stubUsers) Ads(context.Context, string) ([]domain.AdSummary, error) { return nil, nil }

type stubCatalog struct{}

func (stubCatalog) AllClasses(context.Context) (domain.ClassCatalog, error) {
	return domain.NewClassCatalog([]domain.Class{
		{Title: "Hobby", Value: "Chess"},
		{Title: "Hobby", Value: "Hiking"},
		{Title: "City", Value: "Helsinki"},
	}), nil
}

type stubAds struct {
	ad      *domain.AdDetail
	added   []domain.Tag
	summary []domain.AdSummary
	count   int64
	last    *time.Time
}

func (s *stubAds) Add(_ context.Context, title, description string, age int, ownerID string, tags []domain.Tag) (*domain.Ad, error) {
	s.added = tags
	return &domain.Ad{ID: "ad-1", Title: title, Description: description, Age: age, UserID: ownerID}, nil
}
func (s *stubAds) Get(context.Context, string) (*domain.AdDetail, error) {
	if s.ad == nil {
		return nil, services.ErrNotFound
	}
	return s.ad, nil
}
func (s *stubAds) Update(context.Context, string, string, string, string, []domain.Tag) error {
	return nil
}
func (s *stubAds) Remove(context.Context, string, string) error { return nil }
func (s *stubAds) Search(context.Context, string) ([]domain.AdSummary, error) {
	return s.summary, nil
}
func (s *stubAds) ListAll(context.Context) ([]domain.AdSummary, error) { return s.summary, nil }
func (s *stubAds) Tags(context.Context, string) ([]domain.Tag, error) {
	return []domain.Tag{{Title: "Hobby", Value: "Chess"}}, nil
}
func (s *stubAds) FeedStats(context.Context) (int64, *time.Time, error) { return s.count, s.last, nil }

type stubThreads struct {
	overview []domain.ThreadOverview
	sendOnce func(threadID, senderID, content, key string) (*domain.ThreadMessage, bool, error)
	markRead func(threadID, readerID string) (int64, error)
}

func (stubThreads) Start(_ context.Context, adID, requesterID string) (*domain.Thread, error) {
	return &domain.Thread{ID: "th-1", AdID: adID, User1ID: requesterID}, nil
}
func (stubThreads) ListMessages(_ context.Context, threadID, _ string) ([]domain.MessageView, error) {
	return []domain.MessageView{{ID: 1, ThreadID: threadID, Content: "hi"}}, nil
}
func (s stubThreads) SendOnce(_ context.Context, threadID, senderID, content, key string) (*domain.ThreadMessage, bool, error) {
	return s.sendOnce(threadID, senderID, content, key)
}
func (s stubThreads) MarkRead(_ context.Context, threadID, readerID string) (int64, error) {
	if s.markRead == nil {
		return 0, nil
	}
	return s.markRead(threadID, readerID)
}
func (stubThreads) ListForUser(context.Context, string) ([]domain.ThreadSummary, error) {
	return []domain.ThreadSummary{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}, nil
}
func (stubThreads) UnreadSummary(context.Context, string) (*services.UnreadSummary, error) {
	return &services.UnreadSummary{Total: 2, Threads: []domain.UnreadCount{{ThreadID: "t1", Count: 2}}}, nil
}
func (s stubThreads) ThreadsForAd(context.Context, string) ([]domain.ThreadOverview, error) {
	return s.overview, nil
}
func (stubThreads) MessagesStats(context.Context, string) (int64, int64, *time.Time, error) {
	return 1, 1, nil, nil
}

// ---------- plumbing ----------

var testIssuer = auth.NewIssuer("0123456789abcdef-handlers", time.Hour)

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, _, err := testIssuer.Issue(userID, "user-"+userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

// newEngine registers the handlers behind real bearer authentication and the
// idempotency key extractor.
func newEngine(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Authenticate(testIssuer))
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))

	r.POST("/users", h.Register)
	r.POST("/sessions", h.Login)
	r.GET("/users/:id", h.GetUser)
	r.GET("/users/:id/image", h.GetImage)
	r.PUT("/users/me/image", h.UploadImage)
	r.GET("/classes", h.ListClasses)
	r.GET("/ads", h.ListAds)
	r.GET("/ads/search", h.SearchAds)
	r.POST("/ads", h.CreateAd)
	r.GET("/ads/:id", h.GetAd)
	r.GET("/ads/:id/threads", h.AdThreads)
	r.GET("/threads", h.ListThreads)
	r.GET("/threads/unread", h.UnreadSummary)
	r.GET("/threads/:id/messages", h.ListMessages)
	r.POST("/threads/:id/messages", h.SendMessage)
	r.POST("/threads/:id/read", h.MarkRead)
	return r
}

func do(r http.Handler, method, path, tok string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func defaultHandlers() (*Handlers, *stubAds, *stubThreads) {
	ads := &stubAds{}
	threads := &stubThreads{}
	users := stubUsers{
		create: func(username, _ string) (*domain.User, error) {
			if username == "taken" {
				return nil, services.ErrDuplicateUsername
			}
			return &domain.User{ID: "u-new", Username: username}, nil
		},
		authn: func(username, password string) (string, error) {
			if password != "secret" {
				return "", services.ErrUnauthenticated
			}
			return "u-" + username, nil
		},
		updateImage: func(string, []byte) error { return nil },
	}
	return New(users, testIssuer, stubCatalog{}, ads, threads), ads, threads
}

// ---------- helpers ----------

func Test_weakETag_and_notModified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	etag := weakETag("ads", 3, int64(17), 1, 20)
	if etag != `W/"ads:3:17:1:20"` {
		t.Fatalf("weakETag = %s", etag)
	}

	cases := []struct {
		inm  string
		want bool
	}{
		{"", false},
		{`W/"ads:3:17:1:20"`, true},
		{`"ads:3:17:1:20"`, true}, // weak comparison ignores the W/ prefix
		{`"other", W/"ads:3:17:1:20"`, true},
		{"*", true},
		{`W/"ads:4:17:1:20"`, false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.inm != "" {
			c.Request.Header.Set("If-None-Match", tc.inm)
		}
		if got := notModified(c, etag); got != tc.want {
			t.Errorf("If-None-Match %q: got %v want %v", tc.inm, got, tc.want)
		}
		if w.Header().Get("ETag") != etag {
			t.Errorf("ETag header not set for %q", tc.inm)
		}
	}

	if unixOrZero(nil) != 0 {
		t.Fatalf("unixOrZero(nil) != 0")
	}
	ts := time.Unix(0, 42)
	if unixOrZero(&ts) != 42 {
		t.Fatalf("unixOrZero mismatch")
	}
}

func Test_parseTags(t *testing.T) {
	tags, err := parseTags([]string{"Hobby:Chess", " ", "City: Helsinki"})
	if err != nil {
		t.Fatalf("parseTags: %v", err)
	}
	if len(tags) != 2 || tags[0].Value != "Chess" || tags[1].Title != "City" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if _, err := parseTags([]string{"no-separator"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------- users ----------

func TestRegisterAndLogin(t *testing.T) {
	h, _, _ := defaultHandlers()
	r := newEngine(h)

	w := do(r, http.MethodPost, "/users", "", strings.NewReader(`{"username":" alice ","password":"secret"}`), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	var ar AuthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &ar)
	if ar.Username != "alice" || ar.TokenType != "Bearer" || ar.Token == "" {
		t.Fatalf("unexpected auth response: %+v", ar)
	}
	if claims, err := testIssuer.Parse(ar.Token); err != nil || claims.Subject != "u-new" {
		t.Fatalf("token does not verify: %v %+v", err, claims)
	}

	w = do(r, http.MethodPost, "/users", "", strings.NewReader(`{"username":"bob","password":"a","password_confirm":"b"}`), nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), ErrCodeValidation) {
		t.Fatalf("password mismatch = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/users", "", strings.NewReader(`{"username":"taken","password":"x"}`), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/users", "", strings.NewReader(`{"username":""}`), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/sessions", "", strings.NewReader(`{"username":"alice","password":"secret"}`), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d", w.Code)
	}
	w = do(r, http.MethodPost, "/sessions", "", strings.NewReader(`{"username":"alice","password":"wrong"}`), nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d", w.Code)
	}
}

func TestImageUploadAndServe(t *testing.T) {
	var stored []byte
	h, _, _ := defaultHandlers()
	users := h.users.(stubUsers)
	users.updateImage = func(id string, image []byte) error {
		if id != "u1" {
			t.Errorf("image stored for %q", id)
		}
		stored = image
		return nil
	}
	users.image = []byte{0xFF, 0xD8, 0xFF}
	h.users = users
	r := newEngine(h)

	w := do(r, http.MethodPut, "/users/me/image", token(t, "u1"), bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xE0}), nil)
	if w.Code != http.StatusNoContent || len(stored) != 4 {
		t.Fatalf("upload = %d stored=%d", w.Code, len(stored))
	}

	w = do(r, http.MethodGet, "/users/u1/image", "", nil, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("get image = %d %q", w.Code, w.Header().Get("Content-Type"))
	}

	// Bodies past the transport cap surface as 413.
	gin.SetMode(gin.TestMode)
	capped := gin.New()
	capped.Use(middleware.Authenticate(testIssuer), func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 8)
		c.Next()
	})
	capped.PUT("/users/me/image", h.UploadImage)
	w = do(capped, http.MethodPut, "/users/me/image", token(t, "u1"), bytes.NewReader(make([]byte, 64)), nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body = %d", w.Code)
	}
}

// ---------- ads ----------

func TestListClasses(t *testing.T) {
	h, _, _ := defaultHandlers()
	w := do(newEngine(h), http.MethodGet, "/classes", "", nil, nil)
	var resp ClassesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Classes) != 2 {
		t.Fatalf("classes = %d %+v", w.Code, resp)
	}
	if resp.Classes[0].Title != "Hobby" || len(resp.Classes[0].Values) != 2 {
		t.Fatalf("catalog order not kept: %+v", resp.Classes)
	}
}

func TestListAds_ETagAndPagination(t *testing.T) {
	h, ads, _ := defaultHandlers()
	last := time.Unix(100, 0)
	ads.count, ads.last = 3, &last
	ads.summary = []domain.AdSummary{{ID: "a3"}, {ID: "a2"}, {ID: "a1"}}
	r := newEngine(h)

	w := do(r, http.MethodGet, "/ads?page=2&page_size=2", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp ListAdsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Ads) != 1 || resp.Ads[0].ID != "a1" || resp.Pagination.Total != 3 || resp.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", resp)
	}

	etag := w.Header().Get("ETag")
	w = do(r, http.MethodGet, "/ads?page=2&page_size=2", "", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional list = %d", w.Code)
	}
	// Different page, different validator.
	w = do(r, http.MethodGet, "/ads?page=1&page_size=2", "", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusOK {
		t.Fatalf("other page = %d", w.Code)
	}
}

func TestCreateAd(t *testing.T) {
	h, ads, _ := defaultHandlers()
	r := newEngine(h)
	tok := token(t, "u1")

	body := `{"title":"Chess partner wanted","description":"Weekly","age":30,"tags":["Hobby:Chess"]}`
	w := do(r, http.MethodPost, "/ads", tok, strings.NewReader(body), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Location") != "/ads/ad-1" {
		t.Fatalf("Location = %q", w.Header().Get("Location"))
	}
	if len(ads.added) != 1 || ads.added[0] != (domain.Tag{Title: "Hobby", Value: "Chess"}) {
		t.Fatalf("tags passed: %+v", ads.added)
	}

	// Title over 50 characters fails binding.
	long := `{"title":"` + strings.Repeat("x", 51) + `","description":"d","age":30}`
	if w := do(r, http.MethodPost, "/ads", tok, strings.NewReader(long), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("long title = %d", w.Code)
	}
	// Malformed tag.
	bad := `{"title":"t","description":"d","age":30,"tags":["Chess"]}`
	if w := do(r, http.MethodPost, "/ads", tok, strings.NewReader(bad), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad tag = %d", w.Code)
	}
}

func TestGetAd_ThreadsOnlyForOwner(t *testing.T) {
	h, ads, threads := defaultHandlers()
	ads.ad = &domain.AdDetail{ID: "ad-1", Title: "Chess", UserID: "owner"}
	threads.overview = []domain.ThreadOverview{{ID: "th-1", AdID: "ad-1"}}
	r := newEngine(h)

	var resp AdResponse
	w := do(r, http.MethodGet, "/ads/ad-1", "", nil, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Tags) != 1 || resp.Threads != nil {
		t.Fatalf("anonymous view: %d %+v", w.Code, resp)
	}
	if strings.Contains(w.Body.String(), `"threads"`) {
		t.Fatalf("threads leaked to non-owner: %s", w.Body.String())
	}

	resp = AdResponse{}
	w = do(r, http.MethodGet, "/ads/ad-1", token(t, "owner"), nil, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Threads) != 1 {
		t.Fatalf("owner view missing threads: %+v", resp)
	}

	if w := do(r, http.MethodGet, "/ads/ad-1/threads", token(t, "stranger"), nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger ad threads = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/ads/ad-1/threads", token(t, "owner"), nil, nil); w.Code != http.StatusOK {
		t.Fatalf("owner ad threads = %d", w.Code)
	}

	ads.ad = nil
	if w := do(r, http.MethodGet, "/ads/zzz", "", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing ad = %d", w.Code)
	}
}

// ---------- threads ----------

func TestSendMessage_NewAndReplay(t *testing.T) {
	h, _, threads := defaultHandlers()
	seen := map[string]bool{}
	threads.sendOnce = func(threadID, senderID, content, key string) (*domain.ThreadMessage, bool, error) {
		if strings.TrimSpace(content) == "" {
			return nil, false, services.ErrEmptyContent
		}
		msg := &domain.ThreadMessage{ID: 7, ThreadID: threadID, SenderID: senderID, Content: content}
		if key != "" && seen[key] {
			return msg, true, nil
		}
		seen[key] = true
		return msg, false, nil
	}
	r := newEngine(h)
	tok := token(t, "u1")
	hdr := map[string]string{middleware.HeaderIdempotencyKey: "k-1"}

	w := do(r, http.MethodPost, "/threads/th-1/messages", tok, strings.NewReader(`{"content":"hi"}`), hdr)
	if w.Code != http.StatusCreated || w.Header().Get(HeaderIdempotentReplay) != "" {
		t.Fatalf("first send = %d replay=%q", w.Code, w.Header().Get(HeaderIdempotentReplay))
	}
	w = do(r, http.MethodPost, "/threads/th-1/messages", tok, strings.NewReader(`{"content":"hi"}`), hdr)
	if w.Code != http.StatusOK || w.Header().Get(HeaderIdempotentReplay) != "true" {
		t.Fatalf("replay = %d replay=%q", w.Code, w.Header().Get(HeaderIdempotentReplay))
	}

	w = do(r, http.MethodPost, "/threads/th-1/messages", tok, strings.NewReader(`{"content":"  "}`), nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), ErrCodeEmptyContent) {
		t.Fatalf("empty = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/threads/th-1/messages", tok, strings.NewReader(`{`), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", w.Code)
	}
}

func TestListMessages_GateAndETag(t *testing.T) {
	h, _, threads := defaultHandlers()
	threads.markRead = func(threadID, readerID string) (int64, error) {
		switch {
		case threadID == "missing":
			return 0, services.ErrNotFound
		case readerID != "u1":
			return 0, services.ErrForbidden
		}
		return 1, nil
	}
	r := newEngine(h)

	w := do(r, http.MethodGet, "/threads/th-1/messages", token(t, "u1"), nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp ThreadMessagesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ThreadID != "th-1" || len(resp.Messages) != 1 {
		t.Fatalf("unexpected body: %+v", resp)
	}
	etag := w.Header().Get("ETag")
	if etag != `W/"thread:th-1:1:1:0"` {
		t.Fatalf("ETag = %q", etag)
	}
	if w := do(r, http.MethodGet, "/threads/th-1/messages", token(t, "u1"), nil, map[string]string{"If-None-Match": etag}); w.Code != http.StatusNotModified {
		t.Fatalf("conditional = %d", w.Code)
	}

	if w := do(r, http.MethodGet, "/threads/th-1/messages", token(t, "u2"), nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("non-participant = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/threads/missing/messages", token(t, "u1"), nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/threads/th-1/read", token(t, "u1"), nil, nil)
	var mr MarkReadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &mr)
	if w.Code != http.StatusOK || mr.Marked != 1 {
		t.Fatalf("mark read = %d %+v", w.Code, mr)
	}
}

func TestListThreadsAndUnread(t *testing.T) {
	h, _, _ := defaultHandlers()
	r := newEngine(h)
	tok := token(t, "u1")

	w := do(r, http.MethodGet, "/threads?page=1&page_size=2", tok, nil, nil)
	var page ListThreadsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if w.Code != http.StatusOK || len(page.Threads) != 2 || !page.Pagination.HasNext || page.Pagination.TotalPages != 2 {
		t.Fatalf("threads page: %d %+v", w.Code, page)
	}

	w = do(r, http.MethodGet, "/threads/unread", tok, nil, nil)
	var sum services.UnreadSummary
	_ = json.Unmarshal(w.Body.Bytes(), &sum)
	if w.Code != http.StatusOK || sum.Total != 2 || len(sum.Threads) != 1 {
		t.Fatalf("unread: %d %+v", w.Code, sum)
	}
}
