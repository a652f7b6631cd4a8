package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/http/middleware"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/pricing"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

// Handler exposes the availability query over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the availability HTTP handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("availability: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// GetAvailability answers GET /availability.
// Query params:
//   - zip: service area zip code (required)
//   - booking_type: booking type code (required)
//   - days: horizon length in days, capped at the configured maximum
//   - from: window start, RFC3339 or YYYY-MM-DD (optional)
//   - specialist_id: pin to one specialist (optional)
//   - appointment_id: consuming appointment, for priority eligibility
//   - ignore_booking_restrictions: staff override flag
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := Request{
		ZipCode:     strings.TrimSpace(q.Get("zip")),
		BookingType: strings.TrimSpace(q.Get("booking_type")),
		Staff:       middleware.IsStaff(r.Context()),
	}
	if req.ZipCode == "" {
		http.Error(w, `{"error": "zip required"}`, http.StatusBadRequest)
		return
	}
	if req.BookingType == "" {
		http.Error(w, `{"error": "booking_type required"}`, http.StatusBadRequest)
		return
	}

	if raw := q.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			http.Error(w, `{"error": "invalid days"}`, http.StatusBadRequest)
			return
		}
		req.Days = days
	}
	if raw := q.Get("from"); raw != "" {
		from, err := parseFrom(raw)
		if err != nil {
			http.Error(w, `{"error": "invalid from, use RFC3339 or YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		req.From = &from
	}
	if raw := q.Get("specialist_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, `{"error": "invalid specialist_id"}`, http.StatusBadRequest)
			return
		}
		req.SpecialistID = &id
	}
	if raw := q.Get("appointment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, `{"error": "invalid appointment_id"}`, http.StatusBadRequest)
			return
		}
		req.AppointmentID = &id
	}
	if raw := q.Get("ignore_booking_restrictions"); raw != "" {
		ignore, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, `{"error": "invalid ignore_booking_restrictions"}`, http.StatusBadRequest)
			return
		}
		req.IgnoreBookingRestrictions = ignore
	}

	resp, err := h.svc.Availability(r.Context(), req)
	switch {
	case errors.Is(err, pricing.ErrUnknownBookingType):
		http.Error(w, `{"error": "unknown booking type"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrUpstream):
		h.logger.Error("availability upstream failure", "zip", req.ZipCode, "error", err)
		http.Error(w, `{"error": "availability temporarily unavailable"}`, http.StatusBadGateway)
		return
	case err != nil:
		h.logger.Error("availability failed", "zip", req.ZipCode, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode availability response", "zip", req.ZipCode, "error", err)
	}
}

func parseFrom(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
