// Package birthdata implements the Birth Data value object of spec §3:
// an instant in civil time plus a geographic coordinate, immutable once
// constructed, with ambiguous DST-transition local times resolved by
// earliest-wall-time-wins (spec §9(b)).
package birthdata

import (
	"strconv"
	"strings"
	"time"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

// Coordinates is a (latitude, longitude) pair in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Validate checks the latitude/longitude invariants of spec §3.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return apierrors.NewInvalidInput("latitude", "must be in [-90, 90]")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return apierrors.NewInvalidInput("longitude", "must be in [-180, 180]")
	}
	return nil
}

// BirthData is the immutable civil-time-plus-location record every
// birth-data-requiring engine consumes.
type BirthData struct {
	instant     time.Time // the resolved, unique UTC instant
	coordinates Coordinates
}

// New constructs a BirthData from calendar date, time-of-day, a named time
// zone or numeric UTC offset, and coordinates. date is "YYYY-MM-DD" and
// timeOfDay is "HH:MM:SS" or "HH:MM" per spec §6. zone is either an IANA
// name (resolved via time.LoadLocation) or a numeric offset in the form
// "+05:30"/"-08:00".
func New(date, timeOfDay, zone string, coords Coordinates) (*BirthData, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	loc, err := resolveZone(zone)
	if err != nil {
		return nil, apierrors.NewInvalidInput("timezone", err.Error())
	}

	layout := "2006-01-02 15:04:05"
	combined := date + " " + normalizeTimeOfDay(timeOfDay)

	instant, err := resolveAmbiguous(combined, layout, loc)
	if err != nil {
		return nil, apierrors.NewInvalidInput("date/time", err.Error())
	}

	return &BirthData{instant: instant.UTC(), coordinates: coords}, nil
}

// FromAPIInput builds a BirthData from the wire-schema birth-data block of
// spec §6, or returns InvalidInput if in is nil (the caller is responsible
// for checking whether an engine requires birth data at all).
func FromAPIInput(in *apitypes.BirthDataInput) (*BirthData, error) {
	if in == nil {
		return nil, apierrors.NewInvalidInput("birth_data", "required but not provided")
	}
	return New(in.Date, in.Time, in.Timezone, Coordinates{Latitude: in.Latitude, Longitude: in.Longitude})
}

// Instant returns the resolved UTC instant.
func (b *BirthData) Instant() time.Time { return b.instant }

// Coordinates returns the geographic coordinates.
func (b *BirthData) Coordinates() Coordinates { return b.coordinates }

func normalizeTimeOfDay(s string) string {
	if len(s) == len("15:04") {
		return s + ":00"
	}
	return s
}

// resolveZone accepts an IANA zone name or a numeric "+HH:MM"/"-HH:MM"
// offset and returns the corresponding Location.
func resolveZone(zone string) (*time.Location, error) {
	if zone == "" || zone == "UTC" || zone == "Z" {
		return time.UTC, nil
	}
	if loc, err := time.LoadLocation(zone); err == nil {
		return loc, nil
	}
	return parseNumericOffset(zone)
}

func parseNumericOffset(zone string) (*time.Location, error) {
	sign := 1
	s := zone
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	default:
		return nil, apierrors.New(apierrors.InvalidInput, "unrecognized timezone: "+zone)
	}

	s = strings.ReplaceAll(s, ":", "")
	var hh, mm int
	var err error
	switch len(s) {
	case 2: // "HH"
		hh, err = strconv.Atoi(s)
	case 4: // "HHMM"
		hh, err = strconv.Atoi(s[:2])
		if err == nil {
			mm, err = strconv.Atoi(s[2:])
		}
	default:
		return nil, apierrors.New(apierrors.InvalidInput, "unrecognized timezone offset: "+zone)
	}
	if err != nil {
		return nil, apierrors.New(apierrors.InvalidInput, "unrecognized timezone offset: "+zone)
	}

	offsetSeconds := sign * (hh*3600 + mm*60)
	return time.FixedZone(zone, offsetSeconds), nil
}

// resolveAmbiguous constructs the UTC instant for a local wall-clock time.
// During a "fall back" DST transition, two UTC instants map to the same
// local wall clock; we construct both candidate interpretations (the
// offset in force just before the transition and the one parsed directly)
// and pick whichever yields the earlier UTC instant, per the
// earliest-wall-time-wins policy (spec §9(b)).
func resolveAmbiguous(value, layout string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, err
	}

	_, offsetHere := t.Zone()
	_, offsetOneHourEarlier := t.Add(-time.Hour).Zone()

	if offsetOneHourEarlier == offsetHere {
		return t, nil
	}

	altFixed := time.FixedZone("", offsetOneHourEarlier)
	alt := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), altFixed)

	if alt.UTC().Before(t.UTC()) {
		return alt, nil
	}
	return t, nil
}
