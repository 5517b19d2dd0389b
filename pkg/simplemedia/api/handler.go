package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-media/pkg/simplemedia"
)

// Handler serves the media HTTP API
type Handler struct {
	service   simplemedia.Service
	tokenAuth *jwtauth.JWTAuth
}

// NewHandler creates a new media handler. Without tokenAuth every request is
// served as the anonymous actor.
func NewHandler(service simplemedia.Service, tokenAuth *jwtauth.JWTAuth) *Handler {
	return &Handler{
		service:   service,
		tokenAuth: tokenAuth,
	}
}

// Routes returns the routes of the media API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	if h.tokenAuth != nil {
		r.Use(jwtauth.Verifier(h.tokenAuth))
	}
	r.Use(ActorMiddleware)

	r.Route("/media-types", func(r chi.Router) {
		r.Post("/", h.CreateMediaType)
		r.Get("/", h.ListMediaTypes)
		r.Get("/{id}", h.GetMediaType)
		r.Delete("/{id}", h.DeleteMediaType)
		r.Get("/{id}/fields", h.ListMediaTypeFields)
	})

	r.Route("/field-configs", func(r chi.Router) {
		r.Post("/", h.CreateFieldConfig)
		r.Get("/", h.ListFieldConfigs)
		r.Get("/{id}", h.GetFieldConfig)
		r.Delete("/{id}", h.DeleteFieldConfig)
		r.Get("/{id}/access", h.CheckFieldConfigAccess)
		r.Get("/{id}/help", h.ReferenceFieldHelp)
	})

	r.Route("/media", func(r chi.Router) {
		r.Post("/", h.CreateMedia)
		r.Get("/", h.ListMedia)
		r.Get("/{id}", h.GetMedia)
		r.Delete("/{id}", h.DeleteMedia)
		r.Get("/{id}/suggestions", h.SuggestTemplates)
		r.Get("/{id}/variables", h.PreprocessMedia)
	})

	r.Get("/field-options", h.FieldOptions)
	r.Get("/help", h.Help)
	r.Get("/theme/hooks", h.ThemeHooks)
	r.Post("/filter-formats/validate", h.ValidateFilterFormat)

	return r
}

// CreateMediaTypeRequest is the request body for creating a media type
type CreateMediaTypeRequest struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Source      string `json:"source"`
	SourceField string `json:"source_field"`
}

// CreateFieldConfigRequest is the request body for creating a field config
type CreateFieldConfigRequest struct {
	EntityType string                    `json:"entity_type"`
	Bundle     string                    `json:"bundle"`
	FieldName  string                    `json:"field_name"`
	FieldType  string                    `json:"field_type"`
	Label      string                    `json:"label"`
	Settings   simplemedia.FieldSettings `json:"settings"`
}

// CreateMediaRequest is the request body for creating a media item
type CreateMediaRequest struct {
	Bundle    string `json:"bundle"`
	Label     string `json:"label"`
	Published bool   `json:"published"`
}

// AccessResponse is the response body of an access check
type AccessResponse struct {
	FieldID   string `json:"field_id"`
	Operation string `json:"operation"`
	Result    string `json:"result"`
	Reason    string `json:"reason,omitempty"`
}

// SuggestionsResponse is the response body of a template suggestion request
type SuggestionsResponse struct {
	MediaID     string   `json:"media_id"`
	ViewMode    string   `json:"view_mode"`
	Suggestions []string `json:"suggestions"`
}

// HelpResponse is the response body of a help request
type HelpResponse struct {
	Route string `json:"route"`
	Text  string `json:"text"`
}

// ValidateFilterFormatRequest is the request body for validating a text format
type ValidateFilterFormatRequest struct {
	Filters []simplemedia.Filter `json:"filters"`
}

// ValidateFilterFormatResponse is the response body of a text format validation
type ValidateFilterFormatResponse struct {
	Valid     bool     `json:"valid"`
	Error     string   `json:"error,omitempty"`
	Misplaced []string `json:"misplaced,omitempty"`
}

const defaultViewMode = "full"

// Media types

// CreateMediaType creates a new media type and its source field
func (h *Handler) CreateMediaType(w http.ResponseWriter, r *http.Request) {
	var req CreateMediaTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mediaType, err := h.service.CreateMediaType(r.Context(), simplemedia.CreateMediaTypeRequest{
		ID:           req.ID,
		Label:        req.Label,
		Description:  req.Description,
		SourcePlugin: req.Source,
		SourceField:  req.SourceField,
	})
	if err != nil {
		slog.Error("Failed to create media type", "media_type", req.ID, "err", err)
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mediaType)
}

// ListMediaTypes lists all media types
func (h *Handler) ListMediaTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListMediaTypes(r.Context())
	if err != nil {
		slog.Error("Failed to list media types", "err", err)
		writeError(w, err)
		return
	}
	render.JSON(w, r, types)
}

// GetMediaType retrieves a media type by ID
func (h *Handler) GetMediaType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mediaType, err := h.service.GetMediaType(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, mediaType)
}

// DeleteMediaType deletes a media type without media items
func (h *Handler) DeleteMediaType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteMediaType(r.Context(), id); err != nil {
		slog.Error("Failed to delete media type", "media_type", id, "err", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMediaTypeFields lists the field configs of a media type
func (h *Handler) ListMediaTypeFields(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.GetMediaType(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	fields, err := h.service.ListFieldConfigs(r.Context(), simplemedia.MediaEntityType, id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, fields)
}

// Field configs

// CreateFieldConfig adds a field to a bundle
func (h *Handler) CreateFieldConfig(w http.ResponseWriter, r *http.Request) {
	var req CreateFieldConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FieldType == "" {
		http.Error(w, "field_type is required", http.StatusBadRequest)
		return
	}

	field, err := h.service.CreateFieldConfig(r.Context(), simplemedia.CreateFieldConfigRequest{
		EntityType: req.EntityType,
		Bundle:     req.Bundle,
		FieldName:  req.FieldName,
		FieldType:  req.FieldType,
		Label:      req.Label,
		Settings:   req.Settings,
	})
	if err != nil {
		slog.Error("Failed to create field config", "bundle", req.Bundle, "field_name", req.FieldName, "err", err)
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, field)
}

// ListFieldConfigs lists field configs, optionally filtered by entity_type and bundle
func (h *Handler) ListFieldConfigs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields, err := h.service.ListFieldConfigs(r.Context(), q.Get("entity_type"), q.Get("bundle"))
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, fields)
}

// GetFieldConfig retrieves a field config by ID
func (h *Handler) GetFieldConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	field, err := h.service.GetFieldConfig(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, field)
}

// DeleteFieldConfig deletes a field config when the access policies allow it
func (h *Handler) DeleteFieldConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := ActorFromContext(r.Context())
	if err := h.service.DeleteFieldConfig(r.Context(), id, actor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckFieldConfigAccess reports the combined access result of an operation on a field config
func (h *Handler) CheckFieldConfigAccess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	op := simplemedia.Operation(r.URL.Query().Get("op"))
	switch op {
	case "":
		op = simplemedia.OperationDelete
	case simplemedia.OperationView, simplemedia.OperationUpdate, simplemedia.OperationDelete:
	default:
		http.Error(w, "Invalid operation", http.StatusBadRequest)
		return
	}

	result, err := h.service.CheckFieldConfigAccess(r.Context(), id, op, ActorFromContext(r.Context()))
	if err != nil {
		slog.Error("Failed to check field access", "field", id, "op", op, "err", err)
		writeError(w, err)
		return
	}

	render.JSON(w, r, AccessResponse{
		FieldID:   id,
		Operation: string(op),
		Result:    result.Kind.String(),
		Reason:    result.Reason,
	})
}

// ReferenceFieldHelp returns the help of a media reference field
func (h *Handler) ReferenceFieldHelp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	help, err := h.service.ReferenceFieldHelp(r.Context(), id, ActorFromContext(r.Context()))
	if err != nil {
		var fieldErr *simplemedia.FieldConfigError
		if errors.As(err, &fieldErr) && fieldErr.Op == "reference_help" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	render.JSON(w, r, help)
}

// Media items

// CreateMedia creates a new media item
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var req CreateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		http.Error(w, "label is required", http.StatusBadRequest)
		return
	}

	item, err := h.service.CreateMediaItem(r.Context(), simplemedia.CreateMediaItemRequest{
		Bundle:    req.Bundle,
		Label:     req.Label,
		Published: req.Published,
	})
	if err != nil {
		slog.Error("Failed to create media", "bundle", req.Bundle, "err", err)
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// ListMedia lists media items, optionally filtered by bundle
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMediaItems(r.Context(), r.URL.Query().Get("bundle"))
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, items)
}

// GetMedia retrieves a media item by ID
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMediaID(w, r)
	if !ok {
		return
	}
	item, err := h.service.GetMediaItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, item)
}

// DeleteMedia deletes a media item
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMediaID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteMediaItem(r.Context(), id); err != nil {
		slog.Error("Failed to delete media", "media_id", id.String(), "err", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestTemplates returns the template suggestions of a media item
func (h *Handler) SuggestTemplates(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMediaID(w, r)
	if !ok {
		return
	}
	viewMode := viewModeParam(r)
	suggestions, err := h.service.SuggestTemplates(r.Context(), id, viewMode)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, SuggestionsResponse{
		MediaID:     id.String(),
		ViewMode:    viewMode,
		Suggestions: suggestions,
	})
}

// PreprocessMedia returns the template variables of a media item
func (h *Handler) PreprocessMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMediaID(w, r)
	if !ok {
		return
	}
	vars, err := h.service.PreprocessMedia(r.Context(), id, viewModeParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, vars)
}

// Catalog

// FieldOptions returns the preconfigured field options for a set of capabilities
func (h *Handler) FieldOptions(w http.ResponseWriter, r *http.Request) {
	var caps simplemedia.FieldTypeCapabilities
	for _, c := range strings.Split(r.URL.Query().Get("capabilities"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			caps = append(caps, simplemedia.FieldCapability(c))
		}
	}
	render.JSON(w, r, simplemedia.PreconfiguredOptionsFor(caps))
}

// Help returns the help text of a route
func (h *Handler) Help(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	text, ok := simplemedia.Help(route)
	if !ok {
		http.Error(w, "No help for route", http.StatusNotFound)
		return
	}
	render.JSON(w, r, HelpResponse{Route: route, Text: text})
}

// ThemeHooks lists the media theme hooks
func (h *Handler) ThemeHooks(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, simplemedia.ThemeHooks())
}

// ValidateFilterFormat checks the filter order of a text format
func (h *Handler) ValidateFilterFormat(w http.ResponseWriter, r *http.Request) {
	var req ValidateFilterFormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := simplemedia.ValidateFilterOrder(req.Filters)
	if err == nil {
		render.JSON(w, r, ValidateFilterFormatResponse{Valid: true})
		return
	}

	resp := ValidateFilterFormatResponse{Error: err.Error()}
	var orderErr *simplemedia.FilterOrderError
	if errors.As(err, &orderErr) {
		resp.Misplaced = orderErr.Filters
	}
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, resp)
}

func parseMediaID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid media ID", "media_id", idStr, "err", err)
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func viewModeParam(r *http.Request) string {
	if vm := r.URL.Query().Get("view_mode"); vm != "" {
		return vm
	}
	return defaultViewMode
}

// writeError maps service errors to HTTP status codes. Integrity faults are
// checked first since they also match the lookup error they wrap.
func writeError(w http.ResponseWriter, err error) {
	var accessErr *simplemedia.AccessError
	switch {
	case errors.Is(err, simplemedia.ErrConfigurationIntegrity):
		slog.Error("Configuration integrity fault", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.As(err, &accessErr):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, simplemedia.ErrMediaTypeNotFound),
		errors.Is(err, simplemedia.ErrFieldConfigNotFound),
		errors.Is(err, simplemedia.ErrMediaItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, simplemedia.ErrMediaTypeExists),
		errors.Is(err, simplemedia.ErrFieldConfigExists),
		errors.Is(err, simplemedia.ErrMediaTypeInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, simplemedia.ErrUnknownSource),
		errors.Is(err, simplemedia.ErrInvalidMachineName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
