package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/friend-app/internal/domain"
)

func TestGetIdempotency_BlankInputs(t *testing.T) {
	db := newTestDB(t, true)
	now := time.Now().UTC()
	for _, c := range [][2]string{{"   ", "k"}, {"t1", ""}} {
		rec, err := GetIdempotency(context.Background(), db, "u1", c[0], c[1], now)
		if rec != nil || !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected (nil, ErrNotFound) for %q, got (%v, %v)", c, rec, err)
		}
	}
}

func TestIdempotency_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "t1", "k1", 42, 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ExpiresAt.Sub(rec.CreatedAt) != time.Hour {
		t.Fatalf("unexpected expiry window: %v", rec.ExpiresAt.Sub(rec.CreatedAt))
	}

	got, err := GetIdempotency(ctx, db, "u1", "t1", "k1", time.Now().UTC())
	if err != nil || got.MessageID != 42 || got.Status != 201 {
		t.Fatalf("GetIdempotency = %+v, %v", got, err)
	}
	if _, err := GetIdempotency(ctx, db, "u2", "t1", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("keys are per user, got %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "t1", "k1", 43, 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIdempotency_ExpiryAndPurge(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := &domain.Idempotency{
		ID: "old", UserID: "u1", ThreadID: "t1", Key: "k1", MessageID: 1, Status: 201,
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(expired).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "t1", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record should be invisible, got %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u2", "t1", "k1", 2, 201, time.Hour); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 record left, got %d", left)
	}
}
