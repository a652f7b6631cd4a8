package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/bookingkey"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/directory"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/observability/metrics"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

var appointmentsTracer = otel.Tracer("labs.internal.appointments")

// ErrExpiredKey rejects a structurally valid key whose slot start has
// already passed.
var ErrExpiredKey = errors.New("appointments: booking key expired")

// ErrUnserviceable rejects a booking into an area that cannot take
// appointments.
var ErrUnserviceable = errors.New("appointments: area not serviceable")

type store interface {
	Create(ctx context.Context, appt Appointment) (uuid.UUID, error)
}

type areaResolver interface {
	ResolveServiceArea(ctx context.Context, zipCode string) (*directory.ServiceArea, error)
}

// BookRequest is one booking-key redemption.
type BookRequest struct {
	Key          string
	ZipCode      string
	BookingType  string
	PatientName  string
	PatientPhone string
}

// Service redeems booking keys. The decoded key's terms are committed
// verbatim: redemption never re-queries a calendar and never re-prices.
type Service struct {
	store   store
	areas   areaResolver
	codec   *bookingkey.Codec
	metrics *metrics.AvailabilityMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// ServiceConfig wires the redemption collaborators.
type ServiceConfig struct {
	Store   store
	Areas   areaResolver
	Codec   *bookingkey.Codec
	Metrics *metrics.AvailabilityMetrics
	Logger  *logging.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService constructs the redemption service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil || cfg.Areas == nil {
		panic("appointments: store and area resolver required")
	}
	if cfg.Codec == nil {
		panic("appointments: booking key codec required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:   cfg.Store,
		areas:   cfg.Areas,
		codec:   cfg.Codec,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
}

// Book decodes and commits one booking key.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(attribute.String("labs.zip_code", req.ZipCode))

	key, err := s.codec.Decode(req.Key)
	if err != nil {
		s.metrics.ObserveRedemption("invalid")
		return nil, err
	}
	if !key.Start.After(s.now()) {
		s.metrics.ObserveRedemption("expired")
		return nil, ErrExpiredKey
	}

	area, err := s.areas.ResolveServiceArea(ctx, req.ZipCode)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveRedemption("error")
		return nil, fmt.Errorf("appointments: resolve area %q: %w", req.ZipCode, err)
	}
	if !area.Serviceable() {
		s.metrics.ObserveRedemption("unserviceable")
		return nil, ErrUnserviceable
	}

	appt := Appointment{
		MarketCode:   area.Market.Code,
		SpecialistID: key.Specialist,
		BookingType:  req.BookingType,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		StartAt:      key.Start,
		EndAt:        key.End,
		Price:        key.Price,
		Priority:     key.Priority,
		Status:       "booked",
	}
	id, err := s.store.Create(ctx, appt)
	if errors.Is(err, ErrSlotTaken) {
		s.metrics.ObserveRedemption("conflict")
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveRedemption("error")
		return nil, err
	}
	appt.ID = id

	s.metrics.ObserveRedemption("accepted")
	s.logger.Info("appointment booked",
		"appointment_id", id,
		"market", appt.MarketCode,
		"start_at", appt.StartAt,
		"priority", appt.Priority,
	)
	span.SetAttributes(attribute.String("labs.appointment_id", id.String()))
	return &appt, nil
}
