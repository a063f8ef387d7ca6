// Package filter holds the canonical dashboard filter state. A Snapshot is
// an immutable read of every filter control at one instant; the Store keeps
// the last committed snapshot and gates new ones through validation.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Month bounds accepted by the date pickers. Values outside this window are
// rejected before any request is issued.
const (
	MinMonth = "2015-01"
	MaxMonth = "2025-12"
)

// AnyGender is the display sentinel that maps to the empty (unfiltered)
// gender value.
const AnyGender = "All Genders"

// The gender facet is a closed set; anything else fails validation.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Snapshot is one immutable read of all filter controls.
type Snapshot struct {
	// Locations preserves insertion order as shown in the pill list.
	Locations []string

	// Gender is "", "male", "female" or "unknown" after normalization.
	Gender string

	DayOfWeek   []string
	Alcohol     []string
	OffenseType []string
	Season      []string

	// HourFrom/HourTo are hours of day (0-23); nil means unbounded.
	HourFrom *int
	HourTo   *int

	// AgeFrom/AgeTo default to the full 0-100 range.
	AgeFrom int
	AgeTo   int

	// Start/End are YYYY-MM month bounds; empty means unbounded.
	Start string
	End   string
}

// NewSnapshot returns a snapshot with the default full age range and no
// other criteria set.
func NewSnapshot() Snapshot {
	return Snapshot{AgeFrom: 0, AgeTo: 100}
}

// NormalizeGender lowercases the control value and maps the "All Genders"
// sentinel to the empty string.
func NormalizeGender(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, AnyGender) {
		return ""
	}
	return strings.ToLower(v)
}

// FieldError is a validation failure attributed to one filter field so the
// UI can mark the offending control.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validMonth(ym string) bool {
	if ym == "" {
		return true
	}
	parts := strings.SplitN(ym, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return y >= 2015 && y <= 2025 && m >= 1 && m <= 12
}

// Validate checks range invariants. It returns a *FieldError for the first
// violated field; a snapshot that fails validation must not be committed.
func (s Snapshot) Validate() error {
	switch s.Gender {
	case "", GenderMale, GenderFemale, GenderUnknown:
	default:
		return &FieldError{Field: "gender", Message: "choose male, female, unknown or all genders"}
	}
	if s.AgeFrom > s.AgeTo {
		return &FieldError{Field: "age", Message: "'From' age cannot be greater than 'To' age"}
	}
	if s.HourFrom != nil && s.HourTo != nil && *s.HourFrom > *s.HourTo {
		return &FieldError{Field: "hour", Message: "'From' hour cannot be greater than 'To' hour"}
	}
	if !validMonth(s.Start) {
		return &FieldError{Field: "start", Message: fmt.Sprintf("choose a month between %s and %s", MinMonth, MaxMonth)}
	}
	if !validMonth(s.End) {
		return &FieldError{Field: "end", Message: fmt.Sprintf("choose a month between %s and %s", MinMonth, MaxMonth)}
	}
	// YYYY-MM strings order lexicographically.
	if s.Start != "" && s.End != "" && s.Start > s.End {
		return &FieldError{Field: "start", Message: "the 'From' month cannot be after the 'To' month"}
	}
	return nil
}

// Query encodes the snapshot as a URL query string with a fixed key order:
// location, gender, day_of_week, alcohol, offense_type, season, hour_from,
// hour_to, age_from, age_to, start, end. Only present/non-empty values are
// emitted; multi-value facets join their selections with commas in stored
// order. Hour and age bounds are always included once set (hour when
// non-nil, age unconditionally), so two snapshots with the same logical
// content always encode to the same string.
func (s Snapshot) Query() string {
	var b strings.Builder

	add := func(key, val string) {
		if val == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(val))
	}

	add("location", strings.Join(s.Locations, ","))
	add("gender", s.Gender)
	add("day_of_week", strings.Join(s.DayOfWeek, ","))
	add("alcohol", strings.Join(s.Alcohol, ","))
	add("offense_type", strings.Join(s.OffenseType, ","))
	add("season", strings.Join(s.Season, ","))
	if s.HourFrom != nil {
		add("hour_from", strconv.Itoa(*s.HourFrom))
	}
	if s.HourTo != nil {
		add("hour_to", strconv.Itoa(*s.HourTo))
	}
	add("age_from", strconv.Itoa(s.AgeFrom))
	add("age_to", strconv.Itoa(s.AgeTo))
	add("start", s.Start)
	add("end", s.End)
	return b.String()
}

// Describe renders the active criteria as one human-readable sentence for
// the report header, or "None" when nothing deviates from the defaults.
func (s Snapshot) Describe() string {
	var parts []string
	if len(s.Locations) > 0 {
		parts = append(parts, "Location: "+strings.Join(s.Locations, ", "))
	}
	if s.Gender != "" {
		parts = append(parts, "Gender: "+s.Gender)
	}
	if len(s.DayOfWeek) > 0 {
		parts = append(parts, "Days: "+strings.Join(s.DayOfWeek, ", "))
	}
	if len(s.Alcohol) > 0 {
		parts = append(parts, "Alcohol: "+strings.Join(s.Alcohol, ", "))
	}
	if len(s.OffenseType) > 0 {
		parts = append(parts, "Offense Types: "+strings.Join(s.OffenseType, ", "))
	}
	if len(s.Season) > 0 {
		parts = append(parts, "Season: "+strings.Join(s.Season, ", "))
	}
	if s.HourFrom != nil || s.HourTo != nil {
		lo, hi := 0, 23
		if s.HourFrom != nil {
			lo = *s.HourFrom
		}
		if s.HourTo != nil {
			hi = *s.HourTo
		}
		if lo != 0 || hi != 23 {
			parts = append(parts, fmt.Sprintf("Hour: %d to %d", lo, hi))
		}
	}
	if s.AgeFrom != 0 || s.AgeTo != 100 {
		parts = append(parts, fmt.Sprintf("Age: %d to %d", s.AgeFrom, s.AgeTo))
	}
	if s.Start != "" || s.End != "" {
		switch {
		case s.Start != "" && s.End != "":
			parts = append(parts, fmt.Sprintf("Months: %s to %s", s.Start, s.End))
		case s.Start != "":
			parts = append(parts, "Months: from "+s.Start)
		default:
			parts = append(parts, "Months: until "+s.End)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "; ")
}

// Clone returns a deep copy so callers can hold a snapshot without sharing
// slice backing arrays with the store.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Locations = append([]string(nil), s.Locations...)
	out.DayOfWeek = append([]string(nil), s.DayOfWeek...)
	out.Alcohol = append([]string(nil), s.Alcohol...)
	out.OffenseType = append([]string(nil), s.OffenseType...)
	out.Season = append([]string(nil), s.Season...)
	if s.HourFrom != nil {
		v := *s.HourFrom
		out.HourFrom = &v
	}
	if s.HourTo != nil {
		v := *s.HourTo
		out.HourTo = &v
	}
	return out
}
