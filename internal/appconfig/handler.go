package appconfig

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "bookly/pkg/errors"
	httputil "bookly/pkg/http"
	"bookly/pkg/logger"
	"bookly/pkg/middleware"
	"bookly/pkg/model"
)

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/config", h.Get)
	router.PATCH("/api/v1/admin/config", h.Update)
	router.POST("/api/v1/admin/config/blocked-slots", h.BlockSlot)
	router.DELETE("/api/v1/admin/config/blocked-slots/:slot", h.UnblockSlot)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session := middleware.SessionFrom(r.Context())
	if session == nil || !session.Admin {
		h.writeError(w, apperrors.Forbidden("Administrator access required"))
		return
	}

	cfg := h.service.Get(r.Context())
	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("Failed to write config response", "error", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.ConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}

	cfg, err := h.service.Update(r.Context(), middleware.SessionFrom(r.Context()), &update)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("Failed to write config response", "error", err)
	}
}

type blockSlotRequest struct {
	Slot string `json:"slot"`
}

func (h *Handler) BlockSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req blockSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}

	cfg, err := h.service.BlockSlot(r.Context(), middleware.SessionFrom(r.Context()), req.Slot)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("Failed to write config response", "error", err)
	}
}

func (h *Handler) UnblockSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cfg, err := h.service.UnblockSlot(r.Context(), middleware.SessionFrom(r.Context()), ps.ByName("slot"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, cfg); err != nil {
		h.log.Error("Failed to write config response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
