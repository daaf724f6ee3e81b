package repo

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "alice", "h", nil, nil); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, db, "alice", "h2", nil, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateUser_NoTable(t *testing.T) {
	db := newTestDB(t, false)
	if u, err := CreateUser(context.Background(), db, "a", "h", nil, nil); err == nil || u != nil {
		t.Fatalf("expected error without table, got u=%v err=%v", u, err)
	}
}

func TestGetUser_AndByUsername(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	age := 30
	bio := "hi"
	u, err := CreateUser(ctx, db, "bob", "hash", &age, &bio)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := GetUser(ctx, db, u.ID)
	if err != nil || got.Username != "bob" || got.Age == nil || *got.Age != 30 || *got.Bio != "hi" {
		t.Fatalf("GetUser = %+v, %v", got, err)
	}
	byName, err := GetUserByUsername(ctx, db, "bob")
	if err != nil || byName.ID != u.ID || byName.PasswordHash != "hash" {
		t.Fatalf("GetUserByUsername = %+v, %v", byName, err)
	}
	if _, err := GetUser(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetUserByUsername(ctx, db, "BOB"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("username lookup should be exact, got %v", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := mustUser(t, db, "carol")

	age := 41
	if err := UpdateUserProfile(ctx, db, u.ID, &age, nil); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	got, _ := GetUser(ctx, db, u.ID)
	if got.Age == nil || *got.Age != 41 || got.Bio != nil {
		t.Fatalf("profile not updated: %+v", got)
	}
	if err := UpdateUserProfile(ctx, db, "missing", nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserImage_Lifecycle(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := mustUser(t, db, "dave")

	if _, err := GetUserImage(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before upload, got %v", err)
	}
	if has, err := UserHasImage(ctx, db, u.ID); err != nil || has {
		t.Fatalf("UserHasImage before upload = %v, %v", has, err)
	}

	img := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	if err := UpdateUserImage(ctx, db, u.ID, img); err != nil {
		t.Fatalf("UpdateUserImage: %v", err)
	}
	got, err := GetUserImage(ctx, db, u.ID)
	if err != nil || !bytes.Equal(got, img) {
		t.Fatalf("GetUserImage = %v, %v", got, err)
	}
	if has, _ := UserHasImage(ctx, db, u.ID); !has {
		t.Fatalf("UserHasImage should be true after upload")
	}
	if err := UpdateUserImage(ctx, db, "missing", img); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
