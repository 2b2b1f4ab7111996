package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/service"
)

// CommentHandler manages comments on resources.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: service, logger: logger}
}

// addCommentRequest is the JSON body for POST /comments/{resourceID}.
type addCommentRequest struct {
	Text string `json:"text"`
}

// HandleAdd attaches a comment to a resource.
//
// HTTP: POST /comments/{resourceID}
// REQUEST BODY: {"text": "great read"}
// RESPONSE: 201 with the created comment
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	resourceID := chi.URLParam(r, "resourceID")

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	comment, err := h.service.Add(r.Context(), user, resourceID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleDelete removes a comment written by the caller.
//
// HTTP: DELETE /comments/{commentID}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	commentID := chi.URLParam(r, "commentID")

	if err := h.service.Delete(r.Context(), user, commentID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
