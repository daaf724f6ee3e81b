package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/friend-app/internal/domain"
)

// newTestDB opens a private in-memory database. When migrate is true the full
// schema is created.
func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := SQLiteDSN(fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, name, "hash-"+name, nil, nil)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func mustAd(t *testing.T, db *gorm.DB, ownerID, title string) *domain.Ad {
	t.Helper()
	a, err := CreateAd(context.Background(), db, title, "about "+title, 30, ownerID)
	if err != nil {
		t.Fatalf("CreateAd(%s): %v", title, err)
	}
	return a
}
