package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/bookingkey"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

// Handler exposes booking-key redemption over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the appointments HTTP handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("appointments: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type bookPayload struct {
	Key         string `json:"key"`
	Zip         string `json:"zip"`
	BookingType string `json:"booking_type"`
	Patient     struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"patient"`
}

// Book answers POST /appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var payload bookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	req := BookRequest{
		Key:          strings.TrimSpace(payload.Key),
		ZipCode:      strings.TrimSpace(payload.Zip),
		BookingType:  strings.TrimSpace(payload.BookingType),
		PatientName:  strings.TrimSpace(payload.Patient.Name),
		PatientPhone: strings.TrimSpace(payload.Patient.Phone),
	}
	if req.Key == "" || req.ZipCode == "" {
		http.Error(w, `{"error": "key and zip required"}`, http.StatusBadRequest)
		return
	}
	if req.PatientName == "" {
		http.Error(w, `{"error": "patient name required"}`, http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Book(r.Context(), req)
	switch {
	case errors.Is(err, bookingkey.ErrInvalidKey):
		http.Error(w, `{"error": "invalid booking key"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrExpiredKey):
		http.Error(w, `{"error": "booking key expired"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrUnserviceable):
		http.Error(w, `{"error": "area not serviceable"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrSlotTaken):
		http.Error(w, `{"error": "slot no longer available"}`, http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("booking failed", "zip", req.ZipCode, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(appt); err != nil {
		h.logger.Error("failed to encode appointment", "error", err)
	}
}
