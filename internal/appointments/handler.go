package appointments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"bookly/internal/watch"
	apperrors "bookly/pkg/errors"
	httputil "bookly/pkg/http"
	"bookly/pkg/logger"
	"bookly/pkg/middleware"
	"bookly/pkg/timeutil"
)

type Handler struct {
	service Service
	hub     *watch.Hub
	log     *logger.Logger
}

func NewHandler(service Service, hub *watch.Hub, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		log:     log,
	}
}

// RegisterRoutes mounts the public booking surface.
func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.GetSlots)
	router.POST("/api/v1/appointments", h.Book)
}

// RegisterWatchRoutes mounts the streaming endpoint. It is kept off the
// regular router so the request timeout middleware does not cut the stream.
func (h *Handler) RegisterWatchRoutes(router *httprouter.Router) {
	router.GET("/api/v1/appointments/watch", h.Watch)
}

// RegisterAdminRoutes mounts the admin surface.
func (h *Handler) RegisterAdminRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/appointments", h.List)
	router.DELETE("/api/v1/admin/appointments/:id", h.DeleteAppointment)
}

func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if strings.TrimSpace(date) == "" {
		h.writeError(w, apperrors.InvalidInput("Missing date query parameter"))
		return
	}

	daySlots, err := h.service.GetSlotsForDate(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, daySlots); err != nil {
		h.log.Error("Failed to write slots response", "error", err)
	}
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}

	appointment, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, appointment); err != nil {
		h.log.Error("Failed to write booking response", "error", err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	appointments, err := h.service.List(r.Context(), middleware.SessionFrom(r.Context()), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, appointments); err != nil {
		h.log.Error("Failed to write appointments response", "error", err)
	}
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.service.Delete(r.Context(), middleware.SessionFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Watch streams full day snapshots over server-sent events. Each event
// carries the complete appointment list for the watched date; the client
// replaces its view wholesale.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := timeutil.NormalizeDate(strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid date, expected DD/MM/YYYY or YYYY-MM-DD"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, apperrors.Internal("Streaming not supported", nil))
		return
	}

	sub, err := h.hub.Subscribe(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.log.Error("Failed to encode snapshot", "date", date, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: appointments\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
