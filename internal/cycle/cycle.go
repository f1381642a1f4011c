// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package cycle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is one of five mutually exclusive phases of a menstrual cycle.
type Phase int

const (
	// PhaseMenstrual covers the bleeding days at the start of the cycle.
	PhaseMenstrual Phase = iota
	// PhaseFollicular is the post-period build-up to ovulation.
	PhaseFollicular
	// PhaseOvulation is the window around the estimated ovulation day.
	PhaseOvulation
	// PhaseEarlyLuteal is the first part of the luteal phase.
	PhaseEarlyLuteal
	// PhaseLateLuteal is the premenstrual part of the luteal phase.
	PhaseLateLuteal
)

// Phases lists every phase in cycle order.
var Phases = []Phase{PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseEarlyLuteal, PhaseLateLuteal}

// String returns the canonical upper-case identifier of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseMenstrual:
		return "MENSTRUAL"
	case PhaseFollicular:
		return "FOLLICULAR"
	case PhaseOvulation:
		return "OVULATION"
	case PhaseEarlyLuteal:
		return "EARLY_LUTEAL"
	case PhaseLateLuteal:
		return "LATE_LUTEAL"
	default:
		return "UNKNOWN"
	}
}

// DisplayName returns a human readable name such as "Early Luteal".
func (p Phase) DisplayName() string {
	switch p {
	case PhaseMenstrual:
		return "Menstrual"
	case PhaseFollicular:
		return "Follicular"
	case PhaseOvulation:
		return "Ovulation"
	case PhaseEarlyLuteal:
		return "Early Luteal"
	case PhaseLateLuteal:
		return "Late Luteal"
	default:
		return "Unknown"
	}
}

// IsLuteal reports whether the phase is one of the luteal sub-phases.
func (p Phase) IsLuteal() bool {
	return p == PhaseEarlyLuteal || p == PhaseLateLuteal
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, ok := ParsePhase(string(text))
	if !ok {
		return fmt.Errorf("unknown cycle phase %q", string(text))
	}
	*p = parsed
	return nil
}

// ParsePhase parses a phase identifier case-insensitively.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if strings.EqualFold(s, p.String()) {
			return p, true
		}
	}
	return PhaseMenstrual, false
}

// ErrInvalidRecord is returned when a cycle record violates
// cycle length > period length > 0.
var ErrInvalidRecord = errors.New("invalid cycle record")

// Record is a logged menstrual cycle. Records are immutable; a newer
// record supersedes older ones as the user's latest cycle.
type Record struct {
	// ID uniquely identifies the record
	ID string `json:"id"`

	// UserID is the owning user
	UserID string `json:"user_id"`

	// StartDate is the first day of the period (calendar day precision)
	StartDate time.Time `json:"start_date"`

	// CycleLength is the full cycle length in days (typically 21-35)
	CycleLength int `json:"cycle_length"`

	// PeriodLength is the bleeding duration in days (typically 2-8)
	PeriodLength int `json:"period_length"`

	// CreatedAt is when the record was logged
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the length invariant.
func (r *Record) Validate() error {
	if r.PeriodLength <= 0 {
		return fmt.Errorf("%w: period length must be positive, got %d", ErrInvalidRecord, r.PeriodLength)
	}
	if r.CycleLength <= r.PeriodLength {
		return fmt.Errorf("%w: cycle length %d must exceed period length %d",
			ErrInvalidRecord, r.CycleLength, r.PeriodLength)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRecord)
	}
	return nil
}

const day = 24 * time.Hour

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysSinceStart returns the number of whole calendar days between the
// record's start date and ref. It is negative when ref precedes the start.
func DaysSinceStart(rec *Record, ref time.Time) int {
	return int(Day(ref).Sub(Day(rec.StartDate)) / day)
}

// DayInCycle returns the 1-based day of the cycle at ref. The result is
// always in [1, CycleLength].
func DayInCycle(rec *Record, ref time.Time) int {
	elapsed := DaysSinceStart(rec, ref)
	mod := elapsed % rec.CycleLength
	if mod < 0 {
		mod += rec.CycleLength
	}
	return mod + 1
}

// PhaseForDay classifies a cycle day. Ovulation is tested after the
// follicular bound and before the luteal bounds, so it wins whenever the
// ovulation window overlaps a luteal day.
func PhaseForDay(dayInCycle, cycleLength, periodLength int) Phase {
	ovulationDay := cycleLength - 14

	switch {
	case dayInCycle <= periodLength:
		return PhaseMenstrual
	case dayInCycle <= int(float64(cycleLength)*0.4):
		return PhaseFollicular
	case dayInCycle >= ovulationDay-2 && dayInCycle <= ovulationDay+2:
		return PhaseOvulation
	case dayInCycle <= int(float64(cycleLength)*0.75):
		return PhaseEarlyLuteal
	default:
		return PhaseLateLuteal
	}
}

// CurrentPhase returns the phase of rec at ref.
func CurrentPhase(rec *Record, ref time.Time) Phase {
	return PhaseForDay(DayInCycle(rec, ref), rec.CycleLength, rec.PeriodLength)
}

// PredictNextPeriod returns the expected start of the next period.
func PredictNextPeriod(rec *Record) time.Time {
	return Day(rec.StartDate).AddDate(0, 0, rec.CycleLength)
}

// PredictOvulation returns the expected ovulation day of the cycle.
func PredictOvulation(rec *Record) time.Time {
	return Day(rec.StartDate).AddDate(0, 0, rec.CycleLength-14)
}

// IsInFertileWindow reports whether ref falls in the ovulation phase.
func IsInFertileWindow(rec *Record, ref time.Time) bool {
	return CurrentPhase(rec, ref) == PhaseOvulation
}

// IsStale reports whether more than two full cycles have elapsed since the
// record started without a newer record being logged.
func IsStale(rec *Record, ref time.Time) bool {
	return DaysSinceStart(rec, ref) > 2*rec.CycleLength
}
