package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/service"
)

// LikeHandler manages likes on resources. Both endpoints take the
// resource ID in the path and have no request body — a like carries no
// payload beyond "who" and "what", and both come from elsewhere.
type LikeHandler struct {
	service *service.LikeService
	logger  *slog.Logger
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(service *service.LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{service: service, logger: logger}
}

// HandleLike records the caller's like on a resource.
//
// HTTP: POST /likes/{resourceID}
// RESPONSE: 201 with the created like; 409 if the caller already liked it
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	resourceID := chi.URLParam(r, "resourceID")

	like, err := h.service.Like(r.Context(), user, resourceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, like)
}

// HandleUnlike removes the caller's like from a resource.
//
// HTTP: DELETE /likes/{resourceID}
func (h *LikeHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	resourceID := chi.URLParam(r, "resourceID")

	if err := h.service.Unlike(r.Context(), user, resourceID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Like removed successfully"})
}
