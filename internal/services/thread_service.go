// Package services – ThreadService
//
// ThreadService is the conversation engine. It guarantees at most one thread
// per (ad, unordered pair of users), gates every message operation on thread
// participation, keeps messages in a deterministic order and tracks per-message
// read state.
//
// Thread identity is enforced by the ux_thread_ad_pair unique index over the
// canonically ordered pair; GetOrCreate resolves a lost insert race by
// re-reading the winner's row.
//
// Observability: public methods are OpenTelemetry-instrumented and outcomes
// are counted in friendapp_conversation_events_total.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
)

// UnreadSummary is the unread-message overview for one user.
type UnreadSummary struct {
	Total   int64                `json:"total"`
	Threads []domain.UnreadCount `json:"threads"`
}

// ThreadService coordinates threads and their messages.
type ThreadService struct {
	DB *gorm.DB

	// MaxContentRunes caps a single message. Zero disables the cap.
	MaxContentRunes int
	// IdempotencyTTL is how long a send's Idempotency-Key stays replayable.
	IdempotencyTTL time.Duration
	// PurgeEvery spaces out the expired-record sweeps run by SendOnce.
	// Zero disables them.
	PurgeEvery time.Duration

	lastPurge atomic.Int64 // unix nanos of the last sweep
}

// NewThreadService constructs a ThreadService with default limits.
func NewThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{DB: db, MaxContentRunes: 2000, IdempotencyTTL: 24 * time.Hour, PurgeEvery: 15 * time.Minute}
}

func tracer() trace.Tracer { return otel.Tracer("services/ThreadService") }

// GetOrCreate returns the thread for (adID, {requesterID, ownerID}),
// creating it when absent. Argument order does not matter for lookup; a newly
// created thread records requesterID as its initiator.
func (s *ThreadService) GetOrCreate(ctx context.Context, adID, requesterID, ownerID string) (*domain.Thread, error) {
	ctx, span := tracer().Start(ctx, "GetOrCreate",
		trace.WithAttributes(attribute.String("ad.id", adID), attribute.String("user.id", requesterID)))
	defer span.End()

	if requesterID == ownerID {
		return nil, ErrSelfThread
	}

	t, err := repo.FindThreadByPair(ctx, s.DB, adID, requesterID, ownerID)
	if err == nil {
		conversationEvents.WithLabelValues("thread_reused").Inc()
		return t, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	t, err = repo.CreateThread(ctx, s.DB, adID, requesterID, ownerID)
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost the race to a concurrent creator.
		t, err = repo.FindThreadByPair(ctx, s.DB, adID, requesterID, ownerID)
		if err != nil {
			return nil, err
		}
		conversationEvents.WithLabelValues("thread_reused").Inc()
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	conversationEvents.WithLabelValues("thread_created").Inc()
	log.Ctx(ctx).Info().Str("thread_id", t.ID).Str("ad_id", adID).Msg("thread created")
	span.SetAttributes(attribute.String("thread.id", t.ID))
	return t, nil
}

// Start opens (or reuses) a thread between requesterID and the owner of adID.
// It returns ErrNotFound for an unknown ad and ErrSelfThread when the
// requester owns the ad.
func (s *ThreadService) Start(ctx context.Context, adID, requesterID string) (*domain.Thread, error) {
	ad, err := repo.GetAd(ctx, s.DB, adID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ad.UserID == requesterID {
		return nil, ErrSelfThread
	}
	return s.GetOrCreate(ctx, adID, requesterID, ad.UserID)
}

// Get returns the thread, or (nil, nil) when it does not exist.
func (s *ThreadService) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	t, err := repo.GetThread(ctx, s.DB, threadID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// IsParticipant reports whether userID is one of the thread's two users.
// A missing thread has no participants.
func (s *ThreadService) IsParticipant(ctx context.Context, threadID, userID string) (bool, error) {
	t, err := s.Get(ctx, threadID)
	if err != nil {
		return false, err
	}
	return t.HasParticipant(userID), nil
}

// participantThread loads a thread and gates on participation.
func (s *ThreadService) participantThread(ctx context.Context, threadID, userID string) (*domain.Thread, error) {
	t, err := s.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if !t.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return t, nil
}

// ListMessages returns the thread's messages oldest first with sender names.
func (s *ThreadService) ListMessages(ctx context.Context, threadID, requesterID string) ([]domain.MessageView, error) {
	ctx, span := tracer().Start(ctx, "ListMessages",
		trace.WithAttributes(attribute.String("thread.id", threadID), attribute.String("user.id", requesterID)))
	defer span.End()

	if _, err := s.participantThread(ctx, threadID, requesterID); err != nil {
		return nil, err
	}
	return repo.ListThreadMessages(ctx, s.DB, threadID)
}

// normalizeContent trims content and checks the length policy.
func (s *ThreadService) normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return "", ErrValidation
	}
	return content, nil
}

// Send appends an unread message from senderID.
func (s *ThreadService) Send(ctx context.Context, threadID, senderID, content string) (*domain.ThreadMessage, error) {
	ctx, span := tracer().Start(ctx, "Send",
		trace.WithAttributes(attribute.String("thread.id", threadID), attribute.String("user.id", senderID)))
	defer span.End()

	th, err := s.participantThread(ctx, threadID, senderID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("recipient.id", th.OtherParticipant(senderID)))
	content, err = s.normalizeContent(content)
	if err != nil {
		return nil, err
	}
	m, err := repo.CreateThreadMessage(ctx, s.DB, threadID, senderID, content)
	if err != nil {
		return nil, err
	}
	conversationEvents.WithLabelValues("message_sent").Inc()
	return m, nil
}

// SendOnce is Send guarded by an idempotency key. A key already used by
// senderID on this thread returns the originally stored message with
// replayed=true. An empty key behaves like Send.
func (s *ThreadService) SendOnce(ctx context.Context, threadID, senderID, content, key string) (msg *domain.ThreadMessage, replayed bool, err error) {
	if key == "" {
		m, err := s.Send(ctx, threadID, senderID, content)
		return m, false, err
	}
	ctx, span := tracer().Start(ctx, "SendOnce",
		trace.WithAttributes(attribute.String("thread.id", threadID), attribute.String("user.id", senderID)))
	defer span.End()

	if _, err := s.participantThread(ctx, threadID, senderID); err != nil {
		return nil, false, err
	}
	if prev, err := s.replay(ctx, senderID, threadID, key); err == nil {
		return prev, true, nil
	}
	content, err = s.normalizeContent(content)
	if err != nil {
		return nil, false, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateThreadMessage(ctx, tx, threadID, senderID, content)
		if err != nil {
			return err
		}
		if _, err := repo.CreateIdempotency(ctx, tx, senderID, threadID, key, m.ID, http.StatusCreated, s.ttl()); err != nil {
			return err
		}
		msg = m
		return nil
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent request with the same key committed first.
		prev, rerr := s.replay(ctx, senderID, threadID, key)
		if rerr != nil {
			return nil, false, rerr
		}
		return prev, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	conversationEvents.WithLabelValues("message_sent").Inc()
	s.purgeExpired(ctx, time.Now().UTC())
	return msg, false, nil
}

// purgeExpired drops expired idempotency records inline, at most once per
// PurgeEvery across concurrent callers. Failures are logged, never returned.
func (s *ThreadService) purgeExpired(ctx context.Context, now time.Time) {
	if s.PurgeEvery <= 0 {
		return
	}
	last := s.lastPurge.Load()
	if now.UnixNano()-last < int64(s.PurgeEvery) || !s.lastPurge.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	n, err := repo.PurgeExpiredIdempotency(ctx, s.DB, now)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("idempotency purge failed")
		return
	}
	if n > 0 {
		log.Ctx(ctx).Debug().Int64("purged", n).Msg("idempotency purge")
	}
}

// HasSendRecord reports whether a still-valid idempotency record exists.
func (s *ThreadService) HasSendRecord(ctx context.Context, userID, threadID, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, threadID, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *ThreadService) replay(ctx context.Context, userID, threadID, key string) (*domain.ThreadMessage, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, threadID, key, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	m, err := repo.GetThreadMessage(ctx, s.DB, rec.MessageID)
	if err != nil {
		return nil, err
	}
	conversationEvents.WithLabelValues("message_replayed").Inc()
	return m, nil
}

func (s *ThreadService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}

// MarkRead flags every message not sent by readerID as read and returns the
// number of messages that changed. Repeating it changes nothing.
func (s *ThreadService) MarkRead(ctx context.Context, threadID, readerID string) (int64, error) {
	ctx, span := tracer().Start(ctx, "MarkRead",
		trace.WithAttributes(attribute.String("thread.id", threadID), attribute.String("user.id", readerID)))
	defer span.End()

	if _, err := s.participantThread(ctx, threadID, readerID); err != nil {
		return 0, err
	}
	n, err := repo.MarkThreadRead(ctx, s.DB, threadID, readerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		conversationEvents.WithLabelValues("thread_read").Inc()
	}
	span.SetAttributes(attribute.Int64("messages.read", n))
	return n, nil
}

// ListForUser returns the user's threads newest first, each with the other
// participant, the ad title and the unread count addressed to userID.
func (s *ThreadService) ListForUser(ctx context.Context, userID string) ([]domain.ThreadSummary, error) {
	ctx, span := tracer().Start(ctx, "ListForUser",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	return repo.ListThreadsForUser(ctx, s.DB, userID)
}

// UnreadSummary totals unread messages addressed to userID across threads.
func (s *ThreadService) UnreadSummary(ctx context.Context, userID string) (*UnreadSummary, error) {
	counts, err := repo.UnreadCounts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := &UnreadSummary{Threads: counts}
	for _, c := range counts {
		out.Total += c.Count
	}
	return out, nil
}

// ThreadsForAd lists every thread of an ad with both participants' names.
// Callers are responsible for restricting this to the ad owner.
func (s *ThreadService) ThreadsForAd(ctx context.Context, adID string) ([]domain.ThreadOverview, error) {
	return repo.ListThreadsForAd(ctx, s.DB, adID)
}

// MessagesStats returns message count, read count and newest timestamp of a
// thread, for cache validators.
func (s *ThreadService) MessagesStats(ctx context.Context, threadID string) (int64, int64, *time.Time, error) {
	return repo.ThreadMessagesStats(ctx, s.DB, threadID)
}
