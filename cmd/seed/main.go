// Command seed loads the classification catalog and, with -demo, a set of
// demo users, ads, threads and messages for local testing.
//
//	go run ./cmd/seed -db friendapp.db -demo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
	"github.com/tbourn/friend-app/internal/services"
	"github.com/tbourn/friend-app/internal/sysutil"
)

// defaultCatalog is inserted on every run; existing pairs are skipped.
var defaultCatalog = []domain.Tag{
	{Title: "Gender", Value: "Female"},
	{Title: "Gender", Value: "Male"},
	{Title: "Gender", Value: "Other"},
	{Title: "Hobby", Value: "Chess"},
	{Title: "Hobby", Value: "Hiking"},
	{Title: "Hobby", Value: "Music"},
	{Title: "Hobby", Value: "Gaming"},
	{Title: "Hobby", Value: "Reading"},
	{Title: "City", Value: "Helsinki"},
	{Title: "City", Value: "Tampere"},
	{Title: "City", Value: "Turku"},
	{Title: "City", Value: "Oulu"},
	{Title: "Looking for", Value: "Friendship"},
	{Title: "Looking for", Value: "Activity partner"},
	{Title: "Looking for", Value: "Chat"},
}

const demoPassword = "test123"

var demoMessages = []string{
	"Hi! Is this still open?",
	"Sounds fun, count me in.",
	"When would suit you?",
	"Thursday evening works for me.",
	"Great, see you then!",
	"Do you have any experience?",
	"Just a beginner, hope that's fine.",
}

type options struct {
	driver  string
	dsn     string
	demo    bool
	users   int
	threads int
	msgs    int
	seed    uint64
}

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var o options
	flag.StringVar(&o.driver, "driver", sysutil.FirstNonEmpty(os.Getenv("DB_DRIVER"), "sqlite"), "database driver (sqlite|postgres)")
	flag.StringVar(&o.dsn, "db", sysutil.FirstNonEmpty(os.Getenv("DATABASE_DSN"), os.Getenv("DB_PATH"), "friendapp.db"), "SQLite path or PostgreSQL DSN")
	flag.BoolVar(&o.demo, "demo", sysutil.EnvTruthy("SEED_DEMO"), "also create demo users, ads, threads and messages")
	flag.IntVar(&o.users, "users", 10, "demo users")
	flag.IntVar(&o.threads, "threads", 20, "demo threads")
	flag.IntVar(&o.msgs, "messages", 50, "demo messages")
	flag.Uint64Var(&o.seed, "seed", 1, "random seed for demo data")
	flag.Parse()

	if err := run(context.Background(), o); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seeding complete")
}

func run(ctx context.Context, o options) error {
	db, err := repo.Open(o.driver, o.dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	n, err := repo.SeedClasses(ctx, db, defaultCatalog)
	if err != nil {
		return fmt.Errorf("seed classes: %w", err)
	}
	log.Info().Int64("inserted", n).Int("catalog", len(defaultCatalog)).Msg("classes")

	if !o.demo {
		return nil
	}
	return seedDemo(ctx, db, o)
}

// seedDemo goes through the services so every invariant (catalog tags,
// thread uniqueness, participant checks) holds for the generated data.
func seedDemo(ctx context.Context, db *gorm.DB, o options) error {
	if o.users < 2 {
		return errors.New("demo needs at least 2 users")
	}
	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))

	users := services.NewUserService(db, bcrypt.MinCost)
	catalog := services.NewCatalogService(db)
	ads := services.NewAdService(db, catalog)
	threads := services.NewThreadService(db)

	cat, err := catalog.AllClasses(ctx)
	if err != nil {
		return err
	}

	userIDs := make([]string, 0, o.users)
	for i := 1; i <= o.users; i++ {
		name := fmt.Sprintf("user%d", i)
		id, err := demoUser(ctx, users, name)
		if err != nil {
			return fmt.Errorf("user %s: %w", name, err)
		}
		userIDs = append(userIDs, id)
	}
	log.Info().Int("users", len(userIDs)).Str("password", demoPassword).Msg("demo users")

	adIDs := make([]string, 0, len(userIDs))
	adOwner := make(map[string]string, len(userIDs))
	for i, uid := range userIDs {
		ad, err := ads.Add(ctx,
			fmt.Sprintf("Looking for company #%d", i+1),
			"Demo ad created by the seed tool.",
			18+rng.IntN(50), uid, randomTags(rng, cat))
		if err != nil {
			return fmt.Errorf("ad for %s: %w", uid, err)
		}
		adIDs = append(adIDs, ad.ID)
		adOwner[ad.ID] = uid
	}
	log.Info().Int("ads", len(adIDs)).Msg("demo ads")

	threadList := make([]*domain.Thread, 0, o.threads)
	for len(threadList) < o.threads {
		adID := adIDs[rng.IntN(len(adIDs))]
		requester := userIDs[rng.IntN(len(userIDs))]
		if requester == adOwner[adID] {
			continue
		}
		th, err := threads.Start(ctx, adID, requester)
		if err != nil {
			return fmt.Errorf("thread: %w", err)
		}
		threadList = append(threadList, th)
	}
	log.Info().Int("threads", len(threadList)).Msg("demo threads")

	for i := 0; i < o.msgs; i++ {
		th := threadList[rng.IntN(len(threadList))]
		sender := th.User1ID
		if rng.IntN(2) == 1 {
			sender = th.User2ID
		}
		if _, err := threads.Send(ctx, th.ID, sender, demoMessages[rng.IntN(len(demoMessages))]); err != nil {
			return fmt.Errorf("message: %w", err)
		}
	}
	log.Info().Int("messages", o.msgs).Msg("demo messages")
	return nil
}

// demoUser creates name or, when it already exists, signs in as it.
func demoUser(ctx context.Context, users *services.UserService, name string) (string, error) {
	u, err := users.Create(ctx, name, demoPassword, nil, nil)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, services.ErrDuplicateUsername) {
		return "", err
	}
	return users.Authenticate(ctx, name, demoPassword)
}

// randomTags picks at most one value per title.
func randomTags(rng *rand.Rand, cat domain.ClassCatalog) []domain.Tag {
	var tags []domain.Tag
	for _, g := range cat.Groups() {
		if len(g.Values) == 0 || rng.IntN(3) == 0 {
			continue
		}
		tags = append(tags, domain.Tag{Title: g.Title, Value: g.Values[rng.IntN(len(g.Values))]})
	}
	return tags
}
