package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/service"
)

// ResourceHandler manages CRUD operations for shared resources.
//
// IDENTITY COMES FROM CONTEXT:
// The identity middleware runs before every handler and attaches the
// authenticated user (if any) to the request context. Handlers pull it
// out with auth.UserFromContext and pass it to the service, which makes
// the authorization decision. Handlers never decide who may do what —
// they only translate HTTP to service calls and back.
type ResourceHandler struct {
	service *service.ResourceService
	logger  *slog.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(service *service.ResourceService, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{service: service, logger: logger}
}

// createResourceRequest is the JSON body for POST /resources.
type createResourceRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Type        model.ResourceType `json:"type"`
	Tags        []string           `json:"tags"`
}

// HandleCreate saves a new resource owned by the caller.
//
// HTTP: POST /resources
// REQUEST BODY: {"title": "...", "description": "...", "url": "...", "type": "ARTICLE", "tags": ["go"]}
// RESPONSE: 201 with the created resource
func (h *ResourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid resource JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	resource, err := h.service.Create(r.Context(), user, req.Title, req.Description, req.URL, req.Type, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resource)
}

// HandleListMine returns the caller's own resources, newest first.
//
// HTTP: GET /resources
func (h *ResourceHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	resources, err := h.service.ListMine(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

// HandleGet returns one resource with its comments and likes attached.
//
// HTTP: GET /resources/{id}
func (h *ResourceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	resource, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// HandleFeed returns the public feed of recent resources, newest first.
//
// HTTP: GET /resources/feed?limit=20&offset=0
//
// The feed is the one read surface that works without a token — it's how
// anonymous visitors discover what's being shared. Bad limit/offset
// values are clamped rather than rejected; a feed request should never
// 400 over pagination.
func (h *ResourceHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resources, err := h.service.Feed(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

// HandleDelete removes a resource owned by the caller.
//
// HTTP: DELETE /resources/{id}
func (h *ResourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource deleted successfully"})
}
