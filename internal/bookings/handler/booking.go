package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"kairooms/internal/bookings/service"
	httputil "kairooms/pkg/http"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking", h.Create)
	router.GET("/api/booking", h.List)
	router.POST("/api/booking/send-invite", h.SendInvite)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	if err := httputil.WriteList(w, bookings, total); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) SendInvite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var invite model.MeetingInvite
	if err := json.NewDecoder(r.Body).Decode(&invite); err != nil {
		h.writeJSON(w, "SendInvite", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.SendInvite(r.Context(), &invite); err != nil {
		h.writeError(w, "SendInvite", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Invitation email sent."); err != nil {
		h.log.Error("failed to write response", "handler", "SendInvite", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, op string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", op, "error", err)
	}
}
