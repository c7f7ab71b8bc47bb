package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/tipboard/internal/auth"
	"github.com/sakif/tipboard/internal/service"
)

// TipHandler serves the tip CRUD endpoints. Every route is mounted behind
// auth.RequireAuth, so by the time these methods run the request context
// carries a verified Identity.
//
// WIRE CONTRACT NOTE:
// Update and delete take the tip id in the REQUEST BODY, not the URL path.
// That's the contract the existing frontend speaks (PUT /tips with
// {"id","title"}), so it stays — changing it to /tips/{id} would be a
// breaking API change for zero functional gain.
type TipHandler struct {
	tips   *service.TipService
	logger *slog.Logger
}

// NewTipHandler creates a TipHandler.
func NewTipHandler(tips *service.TipService, logger *slog.Logger) *TipHandler {
	return &TipHandler{tips: tips, logger: logger}
}

type createTipRequest struct {
	Title string `json:"title"`
}

type updateTipRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type deleteTipRequest struct {
	ID string `json:"id"`
}

// HandleList returns all tips with their owners' public profiles.
//
// HTTP: GET /tips
//
// 200 → {"results": [{"id","title","userId","username","profilePicture"}...],
//	"currentUserId": "..."}
//
// currentUserId lets the frontend decide which entries get edit/delete
// buttons; the server still enforces ownership on every mutation regardless.
func (h *TipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees this; reaching here means a wiring bug.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	views, err := h.tips.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results":       views,
		"currentUserId": identity.UserID,
	})
}

// HandleCreate creates a tip owned by the caller.
//
// HTTP: POST /tips
// BODY: {"title": "..."}
//
// 201 → {"id": "...", "success": "Tip created successfully"}
func (h *TipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	var req createTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tip JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "title is required"})
		return
	}

	id, err := h.tips.Create(r.Context(), req.Title, identity.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"success": "Tip created successfully",
	})
}

// HandleUpdate retitles one of the caller's own tips.
//
// HTTP: PUT /tips
// BODY: {"id": "...", "title": "..."}
//
// 200 → {"success": "Tip updated successfully"}
// 404 → tip absent OR owned by someone else (deliberately the same answer)
func (h *TipHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	var req updateTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tip JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	if req.ID == "" || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "id and title are required"})
		return
	}

	if err := h.tips.Update(r.Context(), req.ID, req.Title, identity.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": "Tip updated successfully"})
}

// HandleDelete removes one of the caller's own tips.
//
// HTTP: DELETE /tips
// BODY: {"id": "..."}
//
// 200 → {"success": "Tip deleted successfully"}
// 404 → same miss contract as update
func (h *TipHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing or invalid Authorization header"})
		return
	}

	var req deleteTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tip JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "id is required"})
		return
	}

	if err := h.tips.Delete(r.Context(), req.ID, identity.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": "Tip deleted successfully"})
}
