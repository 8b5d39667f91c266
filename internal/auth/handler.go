// Package auth exposes the login endpoint. Credential verification is fully
// delegated to the external identity service; this process never stores or
// compares secrets.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"bookly/pkg/client"
	apperrors "bookly/pkg/errors"
	httputil "bookly/pkg/http"
	"bookly/pkg/logger"
)

type Handler struct {
	identity *client.IdentityClient
	log      *logger.Logger
}

func NewHandler(identity *client.IdentityClient, log *logger.Logger) *Handler {
	return &Handler{
		identity: identity,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.Login)
}

type loginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Principal string `json:"principal"`
	Admin     bool   `json:"admin"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}
	if strings.TrimSpace(req.Identity) == "" || req.Secret == "" {
		h.writeError(w, apperrors.Validation("Identity and secret are required", nil))
		return
	}

	session, err := h.identity.Authenticate(r.Context(), strings.TrimSpace(req.Identity), req.Secret)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info("login succeeded", "principal", session.Principal, "admin", session.Admin)
	if err := httputil.WriteSuccess(w, loginResponse{
		Token:     session.Token,
		Principal: session.Principal,
		Admin:     session.Admin,
	}); err != nil {
		h.log.Error("Failed to write login response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
