package services

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
)

// newServiceDB opens a migrated file-backed SQLite database in a temp dir.
// File-backed (WAL + busy timeout) so concurrent writers wait instead of
// failing with shared-cache table locks.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.Open("sqlite", filepath.Join(t.TempDir(), "svc.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

var testCatalog = []domain.Tag{
	{Title: "Gender", Value: "Female"},
	{Title: "Gender", Value: "Male"},
	{Title: "Hobby", Value: "Chess"},
	{Title: "Hobby", Value: "Hiking"},
	{Title: "City", Value: "Helsinki"},
}

// fixture bundles the services over one database.
type fixture struct {
	db      *gorm.DB
	users   *UserService
	catalog *CatalogService
	ads     *AdService
	threads *ThreadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newServiceDB(t)
	if _, err := repo.SeedClasses(context.Background(), db, testCatalog); err != nil {
		t.Fatalf("seed classes: %v", err)
	}
	cat := NewCatalogService(db)
	return &fixture{
		db:      db,
		users:   NewUserService(db, bcrypt.MinCost),
		catalog: cat,
		ads:     NewAdService(db, cat),
		threads: NewThreadService(db),
	}
}

func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, "pw-"+name, nil, nil)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u.ID
}

func (f *fixture) ad(t *testing.T, ownerID, title string, tags ...domain.Tag) string {
	t.Helper()
	a, err := f.ads.Add(context.Background(), title, "about "+title, 30, ownerID, tags)
	if err != nil {
		t.Fatalf("add ad %s: %v", title, err)
	}
	return a.ID
}
