// Package services – UserService
//
// UserService is the user directory: registration with bcrypt-hashed
// credentials, login verification, profile reads and updates, and the
// optional JPEG profile image.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/friend-app/internal/auth"
	"github.com/tbourn/friend-app/internal/domain"
	"github.com/tbourn/friend-app/internal/repo"
)

const (
	maxUsernameRunes = 64
	maxBioRunes      = 1000
	maxAge           = 999
)

// Profile is the public view of a user.
type Profile struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Age      *int    `json:"age,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	HasImage bool    `json:"has_image"`
}

// UserService manages accounts and profiles.
type UserService struct {
	DB *gorm.DB

	// BcryptCost is passed to bcrypt; out-of-range values use bcrypt's default.
	BcryptCost int
	// MaxImageBytes caps profile images. Zero means 100 KiB.
	MaxImageBytes int

	padOnce sync.Once
	pad     []byte
	padErr  error
}

// NewUserService constructs a UserService with default limits.
func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{DB: db, BcryptCost: bcryptCost, MaxImageBytes: 100 * 1024}
}

// Create registers a user. A taken username yields ErrDuplicateUsername.
func (s *UserService) Create(ctx context.Context, username, password string, age *int, bio *string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Create")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameRunes || password == "" {
		return nil, ErrValidation
	}
	if err := validateProfile(age, bio); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, ErrValidation
		}
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, username, hash, age, bio)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return u, nil
}

// Authenticate returns the user id for valid credentials, or
// ErrUnauthenticated. Unknown users and wrong passwords are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Authenticate")
	defer span.End()

	u, err := repo.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if errors.Is(err, repo.ErrNotFound) {
		pad, perr := s.timingPad()
		if perr != nil {
			return "", perr
		}
		auth.BurnCompare(pad, password)
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		log.Ctx(ctx).Debug().Str("user_id", u.ID).Msg("login rejected")
		return "", ErrUnauthenticated
	}
	return u.ID, nil
}

// timingPad lazily builds the unknown-user comparison hash at BcryptCost.
func (s *UserService) timingPad() ([]byte, error) {
	s.padOnce.Do(func() { s.pad, s.padErr = auth.TimingPad(s.BcryptCost) })
	return s.pad, s.padErr
}

// Get returns the public profile of a user.
func (s *UserService) Get(ctx context.Context, id string) (*Profile, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	has, err := repo.UserHasImage(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return &Profile{ID: u.ID, Username: u.Username, Age: u.Age, Bio: u.Bio, HasImage: has}, nil
}

// UpdateProfile replaces age and bio.
func (s *UserService) UpdateProfile(ctx context.Context, id string, age *int, bio *string) error {
	if err := validateProfile(age, bio); err != nil {
		return err
	}
	err := repo.UpdateUserProfile(ctx, s.DB, id, age, bio)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UpdateImage replaces the profile image. Content must sniff as JPEG and fit
// MaxImageBytes.
func (s *UserService) UpdateImage(ctx context.Context, id string, image []byte) error {
	limit := s.MaxImageBytes
	if limit <= 0 {
		limit = 100 * 1024
	}
	if len(image) == 0 || len(image) > limit {
		return ErrInvalidImage
	}
	if !mimetype.Detect(image).Is("image/jpeg") {
		return ErrInvalidImage
	}
	err := repo.UpdateUserImage(ctx, s.DB, id, image)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Image returns the stored image, or ErrNotFound when there is none.
func (s *UserService) Image(ctx context.Context, id string) ([]byte, error) {
	b, err := repo.GetUserImage(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

// Ads lists the ads owned by a user, newest first.
func (s *UserService) Ads(ctx context.Context, id string) ([]domain.AdSummary, error) {
	return repo.ListAdsByUser(ctx, s.DB, id)
}

func validateProfile(age *int, bio *string) error {
	if age != nil && (*age < 1 || *age > maxAge) {
		return ErrValidation
	}
	if bio != nil && utf8.RuneCountInString(*bio) > maxBioRunes {
		return ErrValidation
	}
	return nil
}
