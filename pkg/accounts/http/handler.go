package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chainlaunch/rolluplaunch/pkg/accounts"
)

// AccountResponse represents one provisioned operator account
type AccountResponse struct {
	Role       string `json:"role"`
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

type KeysHandler struct {
	provisioner *accounts.Provisioner
}

func NewKeysHandler(provisioner *accounts.Provisioner) *KeysHandler {
	return &KeysHandler{provisioner: provisioner}
}

// RegisterRoutes registers the key provisioning routes
func (h *KeysHandler) RegisterRoutes(r chi.Router) {
	r.Post("/keys", h.ProvisionKeys)
}

// ProvisionKeys generates a fresh operator account set: two validators
// and one batch poster. Keys are returned once and never stored
// server-side; the caller owns them.
func (h *KeysHandler) ProvisionKeys(w http.ResponseWriter, r *http.Request) {
	provisioned, err := h.provisioner.Provision(accounts.DefaultRoles)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	out := make([]AccountResponse, 0, len(provisioned))
	for _, account := range provisioned {
		out = append(out, AccountResponse{
			Role:       string(account.Role),
			Address:    account.Address.Hex(),
			PrivateKey: account.PrivateKey,
		})
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, out)
}
