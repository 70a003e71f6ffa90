package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/http/response"
	"github.com/chainlaunch/rolluplaunch/pkg/nodes"
)

// RegisterNodeRequest represents the request to register a rollup node
type RegisterNodeRequest struct {
	Name         string `json:"name" validate:"required"`
	ArtifactPath string `json:"artifactPath" validate:"required"`
}

// Handler handles HTTP requests for the node registry
type Handler struct {
	registry *nodes.Registry
	validate *validator.Validate
}

func NewHandler(registry *nodes.Registry) *Handler {
	return &Handler{
		registry: registry,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the node routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", response.Middleware(h.ListNodes))
		r.Post("/", response.Middleware(h.RegisterNode))
		r.Get("/{id}", response.Middleware(h.GetNode))
		r.Post("/{id}/start", response.Middleware(h.StartNode))
		r.Post("/{id}/stop", response.Middleware(h.StopNode))
	})
}

// ListNodes returns all registered nodes
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) error {
	return response.WriteJSON(w, http.StatusOK, h.registry.List())
}

// RegisterNode registers a node from a persisted configuration artifact
func (h *Handler) RegisterNode(w http.ResponseWriter, r *http.Request) error {
	var req RegisterNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("invalid request body", map[string]interface{}{
			"detail": err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := make(map[string]string)
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors[err.Field()] = err.Tag()
		}
		return errors.NewValidationError("validation failed", map[string]interface{}{
			"errors": validationErrors,
		})
	}

	node, err := h.registry.Register(req.Name, req.ArtifactPath)
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusCreated, node)
}

// GetNode returns a node by ID
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) error {
	node, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, node)
}

// StartNode starts a stopped node
func (h *Handler) StartNode(w http.ResponseWriter, r *http.Request) error {
	node, err := h.registry.Start(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, node)
}

// StopNode stops a running node
func (h *Handler) StopNode(w http.ResponseWriter, r *http.Request) error {
	node, err := h.registry.Stop(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, node)
}
