// Package pricing maps booking types to slot duration and price rules.
// The set of booking types is closed and known at build time, so the
// registry is a statically constructed map rather than anything
// discovered at runtime.
package pricing

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownBookingType rejects requests for a booking type the registry
// does not carry. Checked before any availability computation runs.
var ErrUnknownBookingType = errors.New("pricing: unknown booking type")

// Descriptor describes one booking type: how long its slot runs and what
// a slot starting at a given local time costs, in cents. Off-hours and
// early-slot adjustments live inside the rule.
type Descriptor interface {
	Code() string
	Duration() time.Duration
	Price(start time.Time) int
}

// Registry is the closed booking-type map.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry builds the default registry with every known booking type.
func NewRegistry() *Registry {
	return newRegistry(
		drawDescriptor{code: "standard", duration: time.Hour, base: 2900},
		drawDescriptor{code: "extended", duration: 90 * time.Minute, base: 4900},
	)
}

func newRegistry(descriptors ...Descriptor) *Registry {
	m := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.Code()] = d
	}
	return &Registry{descriptors: m}
}

// Lookup resolves a booking type code.
func (r *Registry) Lookup(code string) (Descriptor, error) {
	d, ok := r.descriptors[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBookingType, code)
	}
	return d, nil
}

// Off-hours bounds for the surcharge rule, local wall clock.
const (
	dayRateStartHour  = 8
	dayRateEndHour    = 18
	offHoursSurcharge = 1000
)

// drawDescriptor prices a blood-draw visit: flat base rate during the
// day, a surcharge for slots starting before 08:00 or at/after 18:00.
type drawDescriptor struct {
	code     string
	duration time.Duration
	base     int
}

func (d drawDescriptor) Code() string            { return d.code }
func (d drawDescriptor) Duration() time.Duration { return d.duration }

func (d drawDescriptor) Price(start time.Time) int {
	if start.Hour() < dayRateStartHour || start.Hour() >= dayRateEndHour {
		return d.base + offHoursSurcharge
	}
	return d.base
}
