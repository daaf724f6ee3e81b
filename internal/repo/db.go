// Package repo is the storage gateway: thin GORM queries that take a context
// and a *gorm.DB and return domain values. Services own transactions by
// passing a tx in place of the root handle.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/friend-app/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique-constraint violation.
var ErrDuplicate = errors.New("duplicate")

// sqlitePragmas are applied per connection through the DSN so every pooled
// connection enforces foreign keys.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// SQLiteDSN appends the connection PRAGMAs to a SQLite path or file: URI.
func SQLiteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// Open dispatches on DB_DRIVER. An empty driver means sqlite, where dsn is a
// file path; for postgres it is the connection string.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite", "":
		return OpenSQLite(dsn)
	case "postgres":
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// poolLimits sizes the database/sql pool behind a gorm.DB.
type poolLimits struct {
	maxOpen, maxIdle int
}

var (
	sqlitePool   = poolLimits{maxOpen: 10, maxIdle: 10}
	postgresPool = poolLimits{maxOpen: 20, maxIdle: 10}
)

// OpenSQLite opens or creates the database file at path with the connection
// PRAGMAs applied. A missing parent directory is reported up front rather
// than as an opaque driver error.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	return openWith(sqlite.Open(SQLiteDSN(path)), sqlitePool)
}

// OpenPostgres connects with a libpq keyword DSN or a postgres:// URL.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return openWith(postgres.Open(dsn), postgresPool)
}

func openWith(d gorm.Dialector, pool poolLimits) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := instrument(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.maxOpen)
	sqlDB.SetMaxIdleConns(pool.maxIdle)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// instrument registers the OpenTelemetry GORM plugin. Spans go to the global
// tracer provider, which is a no-op until observability is set up.
func instrument(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

// AutoMigrate creates or updates every table used by the application.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Ad{},
		&domain.Class{},
		&domain.AdTag{},
		&domain.Thread{},
		&domain.ThreadMessage{},
		&domain.Idempotency{},
	)
}

// isDuplicate reports whether err is a unique-constraint violation. Drivers
// differ: some translate to gorm.ErrDuplicatedKey, others only return text.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
