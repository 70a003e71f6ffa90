package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chainlaunch/rolluplaunch/pkg/db"
	"github.com/chainlaunch/rolluplaunch/pkg/deployments"
	"github.com/chainlaunch/rolluplaunch/pkg/http/response"
)

// DeploymentResponse represents the JSON response for a deployment run
type DeploymentResponse struct {
	ID           string    `json:"id"`
	ChainID      int64     `json:"chainId"`
	Status       string    `json:"status"`
	State        string    `json:"state"`
	TxHash       string    `json:"txHash,omitempty"`
	ArtifactPath string    `json:"artifactPath,omitempty"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Handler handles HTTP requests for recorded deployment runs
type Handler struct {
	service *deployments.Service
}

func NewHandler(service *deployments.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the deployment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/deployments", func(r chi.Router) {
		r.Get("/", response.Middleware(h.ListDeployments))
		r.Get("/{id}", response.Middleware(h.GetDeployment))
	})
}

// ListDeployments returns all recorded deployment runs, newest first
func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) error {
	runs, err := h.service.List(r.Context())
	if err != nil {
		return err
	}

	out := make([]DeploymentResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toDeploymentResponse(run))
	}
	return response.WriteJSON(w, http.StatusOK, out)
}

// GetDeployment returns a single deployment run by ID
func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	run, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, toDeploymentResponse(run))
}

func toDeploymentResponse(run *db.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:           run.ID,
		ChainID:      run.ChainID,
		Status:       run.Status,
		State:        run.State,
		TxHash:       run.TxHash.String,
		ArtifactPath: run.ArtifactPath.String,
		Message:      run.Message.String,
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
	}
}
