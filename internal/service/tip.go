package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/tipboard/internal/apperror"
	"github.com/sakif/tipboard/internal/model"
	"github.com/sakif/tipboard/internal/store"
)

// TipService handles create/list/update/delete of tips.
//
// OWNERSHIP-SCOPED MUTATION:
// Update and Delete locate the target by id AND owner in one predicate. A tip
// that exists under a different owner takes the exact same code path as a tip
// that doesn't exist — both come back NotFound. That's deliberate: the error
// must not leak whether somebody else's tip id is real.
type TipService struct {
	db     store.Store
	mu     *sync.Mutex
	logger *slog.Logger
}

// NewTipService creates a TipService. The mutex must be the same instance
// handed to AuthService — there is one document, so there is one lock.
func NewTipService(db store.Store, mu *sync.Mutex, logger *slog.Logger) *TipService {
	return &TipService{
		db:     db,
		mu:     mu,
		logger: logger,
	}
}

// Create appends a new tip owned by userID and returns its generated id.
func (s *TipService) Create(ctx context.Context, title, userID string) (string, error) {
	// The handler checks this too; validate anyway so no caller can sneak an
	// empty title into the document.
	if strings.TrimSpace(title) == "" {
		return "", apperror.ValidationFailed("title", "title is required")
	}
	if userID == "" {
		return "", apperror.ValidationFailed("userId", "userId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("service/tip: loading store: %w", err)
	}

	tip := model.Tip{
		ID:     xid.New().String(),
		Title:  title,
		UserID: userID,
	}
	doc.Tips = append(doc.Tips, tip)

	if err := s.db.Save(ctx, doc); err != nil {
		return "", fmt.Errorf("service/tip: saving store: %w", err)
	}

	s.logger.Info("tip created",
		slog.String("tipID", tip.ID),
		slog.String("userID", userID),
	)

	return tip.ID, nil
}

// List returns every tip, joined to its owner's public profile.
//
// The join tolerates dangling references: a tip whose userId matches no user
// (owner record lost or hand-deleted from the file) is still listed, with
// username "Unknown" and an empty profile picture.
func (s *TipService) List(ctx context.Context) ([]model.TipView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/tip: loading store: %w", err)
	}

	usersByID := make(map[string]model.User, len(doc.Users))
	for _, u := range doc.Users {
		usersByID[u.ID] = u
	}

	views := make([]model.TipView, 0, len(doc.Tips))
	for _, tip := range doc.Tips {
		view := model.TipView{
			ID:       tip.ID,
			Title:    tip.Title,
			UserID:   tip.UserID,
			Username: "Unknown",
		}
		if owner, ok := usersByID[tip.UserID]; ok {
			view.Username = owner.Username
			view.ProfilePicture = owner.ProfilePicture
		}
		views = append(views, view)
	}

	return views, nil
}

// Update sets the title of the tip with the given id, if it is owned by
// userID. A miss — absent id OR wrong owner, indistinguishably — returns
// NotFound and leaves the store untouched.
func (s *TipService) Update(ctx context.Context, id, title, userID string) error {
	if strings.TrimSpace(title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return fmt.Errorf("service/tip: loading store: %w", err)
	}

	idx := findOwnedTip(doc.Tips, id, userID)
	if idx < 0 {
		return apperror.NotFound("Tip not found or not yours")
	}

	doc.Tips[idx].Title = title

	if err := s.db.Save(ctx, doc); err != nil {
		return fmt.Errorf("service/tip: saving store: %w", err)
	}

	s.logger.Info("tip updated",
		slog.String("tipID", id),
		slog.String("userID", userID),
	)

	return nil
}

// Delete removes the tip with the given id, if it is owned by userID.
// Same miss contract as Update. Deletion is real removal — no tombstone.
func (s *TipService) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.db.Load(ctx)
	if err != nil {
		return fmt.Errorf("service/tip: loading store: %w", err)
	}

	idx := findOwnedTip(doc.Tips, id, userID)
	if idx < 0 {
		return apperror.NotFound("Tip not found or not yours")
	}

	doc.Tips = append(doc.Tips[:idx], doc.Tips[idx+1:]...)

	if err := s.db.Save(ctx, doc); err != nil {
		return fmt.Errorf("service/tip: saving store: %w", err)
	}

	s.logger.Info("tip deleted",
		slog.String("tipID", id),
		slog.String("userID", userID),
	)

	return nil
}

// findOwnedTip returns the index of the tip matching BOTH id and owner, or -1.
func findOwnedTip(tips []model.Tip, id, userID string) int {
	for i, t := range tips {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}
