// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Store   (data layer)     → loads/saves the persisted document
//
// Handlers never touch the store; services never touch HTTP. Each service
// operation is one read-modify-write: exactly one Load and, if state changes,
// exactly one Save.
//
// THE SHARED MUTEX:
// The store's Load/Save calls are individually safe, but without a lock two
// racing operations could both load the pre-mutation document and the second
// Save would silently discard the first's change. Both services therefore
// receive the SAME *sync.Mutex from the composition root and hold it across
// the whole load→mutate→save sequence. A single in-process lock is the whole
// concurrency story — this service runs as one process against one file.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/tipboard/internal/apperror"
	"github.com/sakif/tipboard/internal/auth"
	"github.com/sakif/tipboard/internal/model"
	"github.com/sakif/tipboard/internal/store"
)

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - db        store.Store           → the persisted document
//   - mu        *sync.Mutex           → serializes read-modify-write, shared with TipService
//   - tokens    *auth.TokenService    → issues identity tokens on login
//   - passwords *auth.PasswordService → reserved for hashed credentials (see auth/password.go)
//   - logger    *slog.Logger          → structured logging
type AuthService struct {
	db        store.Store
	mu        *sync.Mutex
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	db store.Store,
	mu *sync.Mutex,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		db:        db,
		mu:        mu,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult bundles the issued token and the public user so the handler
// can respond in one step.
type LoginResult struct {
	Token string
	User  model.PublicUser
}

// Register creates a new user account.
//
// Username uniqueness is case-sensitive and checked under the store mutex —
// the scan-then-append sequence must not interleave with another Register, or
// two "alice"s could both pass the scan.
//
// The returned PublicUser carries no password field; that projection is the
// hard contract, not a formatting choice.
func (s *AuthService) Register(ctx context.Context, username, password, profilePicture string) (*model.PublicUser, error) {
	// The handler validates presence too, but the service must not assume a
	// well-behaved caller.
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: loading store: %w", err)
	}

	for _, u := range doc.Users {
		if u.Username == username {
			return nil, apperror.Conflict("Username already taken")
		}
	}

	user := model.User{
		ID:             xid.New().String(),
		Username:       username,
		Password:       password,
		ProfilePicture: profilePicture,
	}
	doc.Users = append(doc.Users, user)

	if err := s.db.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("service/auth: saving store: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	public := user.Public()
	return &public, nil
}

// Login authenticates a user and issues an identity token.
//
// The comparison is an exact match on both username and password. Failure is
// a single generic Unauthorized — the caller learns nothing about WHICH of
// the two was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: loading store: %w", err)
	}

	var user *model.User
	for i := range doc.Users {
		if doc.Users[i].Username == username && doc.Users[i].Password == password {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil {
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}
