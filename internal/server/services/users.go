// Package services contains the server-side business logic. This file
// implements UserService: registration with validated, hashed credentials,
// login with token issuance, and stateless token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// emailPattern accepts local@domain.tld-shaped addresses.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const minPasswordLength = 6

// UserView is the public projection of a user. It never carries the
// password hash.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult bundles a session token with the authenticated user's
// projection.
type LoginResult struct {
	Token string
	User  UserView
}

// UserService orchestrates registration, login, and token verification.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	hashCost              int
}

// NewUserService wires a UserService. An empty signing secret is a startup
// configuration fault, reported here rather than on first use.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	if cfg.SecretKey == "" {
		return nil, common.ErrMissingSecret
	}

	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		hashCost:              auth.DefaultHashCost,
	}, nil
}

func newUserView(user *models.User) UserView {
	return UserView{ID: user.ID, Name: user.Name, Email: user.Email}
}

// Register validates the supplied credentials, hashes the password, and
// persists a new user. Failures come back as common sentinel errors wrapped
// with a reason; the returned projection never contains the hash.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*UserView, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// the existence check and the insert share one transaction
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, common.ErrNotFound) {
			return common.ErrInternal
		}

		user, err = repo.Create(ctx, user)
		if err != nil {
			// a concurrent registration can still slip past the existence
			// check; the unique index settles it
			if errors.Is(err, common.ErrEmailTaken) {
				return common.ErrEmailTaken
			}
			return common.ErrInternal
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, common.ErrInternal
	}

	view := newUserView(user)
	return &view, nil
}

// Login verifies credentials and issues a session token bound to the user id.
// Unknown email and wrong password produce the same ErrInvalidCredentials;
// storage faults collapse to ErrInternal without detail.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &LoginResult{Token: token, User: newUserView(user)}, nil
}

// VerifyToken checks signature and expiry of a session token. It touches no
// storage; validity is re-derived from the token itself.
func (s *UserService) VerifyToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}
