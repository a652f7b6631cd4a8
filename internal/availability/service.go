package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/bookingkey"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/directory"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/holidays"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/observability/metrics"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/pricing"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

var availabilityTracer = otel.Tracer("labs.internal.availability")

// ErrUpstream marks a failed external read (directory, holiday calendar,
// allocation store). Availability is never computed on partial critical
// data, and retries belong to the caller.
var ErrUpstream = errors.New("availability: upstream data unavailable")

// ServiceAreaResolver resolves zip codes to service areas.
type ServiceAreaResolver interface {
	ResolveServiceArea(ctx context.Context, zipCode string) (*directory.ServiceArea, error)
}

// SpecialistDirectory lists the specialists eligible for booking.
type SpecialistDirectory interface {
	EligibleSpecialists(ctx context.Context, marketCode string, pinned *uuid.UUID, includeRestricted bool) ([]directory.Specialist, error)
}

// AllocationSource loads busy intervals from the appointment store.
type AllocationSource interface {
	Busy(ctx context.Context, marketCode string, window schedule.DateInterval, loc *time.Location, specialist *uuid.UUID) ([]schedule.DateInterval, error)
}

// LabOrderGate reports whether the consuming appointment already has all
// required lab-order documents uploaded. Priority booking requires it.
type LabOrderGate interface {
	HasRequiredLabOrders(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}

// Request is one availability query.
type Request struct {
	ZipCode     string
	Days        int
	BookingType string
	// From moves the window start; pasts are clamped to now.
	From *time.Time
	// IgnoreBookingRestrictions is honored only for staff callers: it
	// skips the initial minimum-notice blackout, includes restricted
	// specialists, and surfaces booked slots.
	IgnoreBookingRestrictions bool
	Staff                     bool
	SpecialistID              *uuid.UUID
	// AppointmentID is the consuming appointment, used to check lab-order
	// upload eligibility for priority slots.
	AppointmentID *uuid.UUID
}

// Slot is one bookable (or staff-visible booked) timeslot.
type Slot struct {
	Key      *string   `json:"key"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Price    int       `json:"price"`
	Booked   bool      `json:"booked"`
	Priority bool      `json:"priority"`
}

// Day buckets slots by calendar date. Every requested day appears, even
// with an empty slot list.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Response is the shaped availability answer.
type Response struct {
	Serviceable bool   `json:"serviceable"`
	Timezone    string `json:"timezone,omitempty"`
	Days        []Day  `json:"days,omitempty"`
}

// defaultBusinessHours bounds markets that carry no business-hour
// configuration of their own.
var defaultBusinessHours = schedule.UniformWeekly(schedule.MustTimeInterval("0600", "2000"),
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday)

// Config wires the orchestrator's collaborators.
type Config struct {
	Areas       ServiceAreaResolver
	Specialists SpecialistDirectory
	Allocations AllocationSource
	Holidays    holidays.Calendar
	LabOrders   LabOrderGate
	Registry    *pricing.Registry
	Codec       *bookingkey.Codec
	Metrics     *metrics.AvailabilityMetrics
	Logger      *logging.Logger

	MinimumNotice  time.Duration
	PriorityNotice time.Duration
	MaxHorizonDays int

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service is the per-request availability façade. Stateless: every
// request reads its inputs fresh and holds them only for its duration.
type Service struct {
	cfg Config
}

// NewService constructs the orchestrator.
func NewService(cfg Config) *Service {
	if cfg.Areas == nil || cfg.Specialists == nil || cfg.Allocations == nil || cfg.Holidays == nil {
		panic("availability: area, specialist, allocation, and holiday sources required")
	}
	if cfg.Registry == nil {
		panic("availability: pricing registry required")
	}
	if cfg.Codec == nil {
		panic("availability: booking key codec required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.MaxHorizonDays <= 0 {
		cfg.MaxHorizonDays = 28
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg}
}

// Availability answers one query end to end: serviceability, eligible
// specialists, parallel input loads, slot calculation, priority
// classification, key issuance, and day bucketing.
func (s *Service) Availability(ctx context.Context, req Request) (*Response, error) {
	ctx, span := availabilityTracer.Start(ctx, "availability.compute")
	defer span.End()
	span.SetAttributes(
		attribute.String("labs.zip_code", req.ZipCode),
		attribute.String("labs.booking_type", req.BookingType),
	)
	began := time.Now()

	descriptor, err := s.cfg.Registry.Lookup(req.BookingType)
	if err != nil {
		return nil, err
	}

	area, err := s.cfg.Areas.ResolveServiceArea(ctx, req.ZipCode)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Join(ErrUpstream, err)
	}
	if !area.Serviceable() {
		s.cfg.Metrics.ObserveRequest(req.BookingType, false)
		return &Response{Serviceable: false}, nil
	}
	span.SetAttributes(attribute.String("labs.market", area.Market.Code))

	loc, err := time.LoadLocation(area.Timezone)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Join(ErrUpstream, fmt.Errorf("availability: market %s timezone %q: %w", area.Market.Code, area.Timezone, err))
	}

	now := s.cfg.Now().In(loc)
	from := now
	if req.From != nil && req.From.After(now) {
		from = req.From.In(loc)
	}
	horizonDays := req.Days
	if horizonDays <= 0 || horizonDays > s.cfg.MaxHorizonDays {
		horizonDays = s.cfg.MaxHorizonDays
	}
	window := schedule.DateInterval{
		Start: from,
		End:   startOfDay(from).AddDate(0, 0, horizonDays),
	}

	// The override path is a staff capability; the flag alone is not
	// enough.
	overrides := req.IgnoreBookingRestrictions && req.Staff

	inputs, err := s.loadInputs(ctx, area.Market.Code, window, loc, req.SpecialistID, overrides)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	businessHours := area.Market.BusinessHours
	if len(businessHours) == 0 {
		businessHours = defaultBusinessHours
	}

	marketBlocked := s.resolveBlackouts("market "+area.Market.Code, area.Market.Blackouts, loc, now)
	marketBlocked = append(marketBlocked, inputs.holidayDays...)

	calendars := make([]SpecialistCalendar, 0, len(inputs.specialists))
	for _, sp := range inputs.specialists {
		calendars = append(calendars, SpecialistCalendar{
			ID:        sp.ID,
			Timetable: schedule.BuildWeekly(sp.Schedule, businessHours),
			Blackouts: s.resolveBlackouts("specialist "+sp.ID.String(), sp.Blackouts, loc, now),
		})
	}

	cutoff, cutoffOK := priorityCutoff(now, s.cfg.PriorityNotice, marketBlocked, loc)

	blocked := marketBlocked
	if !overrides {
		if ib, ok := initialBlackout(now, s.cfg.MinimumNotice, businessHours, marketBlocked, loc); ok {
			blocked = append(append([]schedule.DateInterval(nil), marketBlocked...), ib)
		}
	}

	generated := GenerateSlots(CalculatorInput{
		Window:        window,
		Duration:      descriptor.Duration(),
		BusinessHours: businessHours,
		Specialists:   calendars,
		MarketBlocked: blocked,
		Busy:          inputs.busy,
		IncludeBooked: overrides,
	})

	priorityEligible := true
	if req.AppointmentID != nil && s.cfg.LabOrders != nil {
		ready, err := s.cfg.LabOrders.HasRequiredLabOrders(ctx, *req.AppointmentID)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Join(ErrUpstream, err)
		}
		priorityEligible = ready
	}

	resp, slotCount, err := s.shapeResponse(area.Timezone, startOfDay(from), horizonDays, loc, generated, descriptor, cutoff, cutoffOK, priorityEligible, overrides)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cfg.Metrics.ObserveRequest(req.BookingType, true)
	s.cfg.Metrics.ObserveCompute(req.BookingType, time.Since(began).Seconds())
	s.cfg.Metrics.ObserveSlots(req.BookingType, slotCount)
	span.SetAttributes(attribute.Int("labs.slots", slotCount))
	return resp, nil
}

type inputSet struct {
	specialists []directory.Specialist
	holidayDays []schedule.DateInterval
	busy        []schedule.DateInterval
}

// loadInputs issues the independent external reads concurrently and
// awaits them jointly. Any failure fails the request.
func (s *Service) loadInputs(ctx context.Context, marketCode string, window schedule.DateInterval, loc *time.Location, pinned *uuid.UUID, includeRestricted bool) (*inputSet, error) {
	var (
		wg                       sync.WaitGroup
		in                       inputSet
		specErr, holErr, busyErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		in.specialists, specErr = s.cfg.Specialists.EligibleSpecialists(ctx, marketCode, pinned, includeRestricted)
	}()
	go func() {
		defer wg.Done()
		in.holidayDays, holErr = holidays.BlackoutDays(ctx, s.cfg.Holidays, window, loc)
	}()
	go func() {
		defer wg.Done()
		in.busy, busyErr = s.cfg.Allocations.Busy(ctx, marketCode, window, loc, pinned)
	}()
	wg.Wait()

	for _, err := range []error{specErr, holErr, busyErr} {
		if err != nil {
			return nil, errors.Join(ErrUpstream, err)
		}
	}
	return &in, nil
}

// resolveBlackouts converts stored blackout periods for one owner,
// logging and dropping malformed entries without aborting, and filters
// out already-elapsed windows.
func (s *Service) resolveBlackouts(owner string, periods []schedule.BlackoutPeriod, loc *time.Location, now time.Time) []schedule.DateInterval {
	res := schedule.ResolveBlackouts(periods, loc)
	for _, dropped := range res.Dropped {
		s.cfg.Logger.Error("dropping malformed blackout entry",
			"owner", owner,
			"blackout_id", dropped.ID,
			"error", dropped.Reason,
		)
	}
	return schedule.DropPast(res.Intervals, now)
}

func (s *Service) shapeResponse(timezone string, horizonStart time.Time, horizonDays int, loc *time.Location, generated []GeneratedSlot, descriptor pricing.Descriptor, cutoff time.Time, cutoffOK bool, priorityEligible bool, overrides bool) (*Response, int, error) {
	sort.Slice(generated, func(i, j int) bool {
		if !generated[i].Start.Equal(generated[j].Start) {
			return generated[i].Start.Before(generated[j].Start)
		}
		return generated[i].Specialist.String() < generated[j].Specialist.String()
	})

	buckets := make(map[string]int, horizonDays)
	days := make([]Day, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := horizonStart.AddDate(0, 0, i).Format("2006-01-02")
		buckets[date] = len(days)
		days = append(days, Day{Date: date, Slots: []Slot{}})
	}

	count := 0
	for _, g := range generated {
		priority := classifyPriority(g.Start, cutoff, cutoffOK) && priorityEligible
		price := descriptor.Price(g.Start)
		slot := Slot{Start: g.Start, End: g.End, Price: price, Booked: g.Booked, Priority: priority}

		// Booked slots are view-only unless the staff override supplied a
		// usable specialist to double-book against.
		issueKey := !g.Booked || (overrides && g.Specialist != uuid.Nil)
		if issueKey {
			specialist := g.Specialist
			token, err := s.cfg.Codec.Encode(bookingkey.Key{
				Specialist: &specialist,
				Start:      g.Start,
				End:        g.End,
				Price:      price,
				Priority:   priority,
			})
			if err != nil {
				return nil, 0, fmt.Errorf("availability: issue booking key: %w", err)
			}
			slot.Key = &token
		}

		idx, ok := buckets[g.Start.In(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		days[idx].Slots = append(days[idx].Slots, slot)
		count++
	}

	return &Response{Serviceable: true, Timezone: timezone, Days: days}, count, nil
}
