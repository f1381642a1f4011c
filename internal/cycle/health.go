// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package cycle

import (
	"fmt"
	"time"
)

// HealthStatus classifies a cycle record against typical ranges.
type HealthStatus string

// Health statuses.
const (
	HealthNormal    HealthStatus = "NORMAL"
	HealthShort     HealthStatus = "SHORT"
	HealthLong      HealthStatus = "LONG"
	HealthIrregular HealthStatus = "IRREGULAR"
)

// Typical ranges used by AssessHealth.
const (
	MinTypicalCycleLength  = 21
	MaxTypicalCycleLength  = 35
	MinTypicalPeriodLength = 3
	MaxTypicalPeriodLength = 7
)

// Health is the result of a cycle health assessment.
type Health struct {
	Status              HealthStatus `json:"status"`
	Message             string       `json:"message,omitempty"`
	ShouldConsultDoctor bool         `json:"should_consult_doctor"`
}

// AssessHealth classifies the record. Cycle length is checked before period
// length, so a short cycle with an irregular period reports SHORT.
func AssessHealth(rec *Record) Health {
	switch {
	case rec.CycleLength < MinTypicalCycleLength:
		return Health{
			Status: HealthShort,
			Message: fmt.Sprintf("Your cycle length (%d days) is shorter than typical. "+
				"This could indicate hormonal imbalance.", rec.CycleLength),
			ShouldConsultDoctor: true,
		}
	case rec.CycleLength > MaxTypicalCycleLength:
		return Health{
			Status: HealthLong,
			Message: fmt.Sprintf("Your cycle length (%d days) is longer than typical. "+
				"Consider tracking for 3 cycles to identify patterns.", rec.CycleLength),
			ShouldConsultDoctor: rec.CycleLength > 40,
		}
	case rec.PeriodLength < MinTypicalPeriodLength || rec.PeriodLength > MaxTypicalPeriodLength:
		return Health{
			Status: HealthIrregular,
			Message: fmt.Sprintf("Your period length (%d days) is outside normal range. "+
				"This is common but worth monitoring.", rec.PeriodLength),
			ShouldConsultDoctor: rec.PeriodLength > 8,
		}
	default:
		return Health{Status: HealthNormal}
	}
}

// Info bundles everything derived from a record at a reference date.
type Info struct {
	Phase            Phase     `json:"phase"`
	PhaseName        string    `json:"phase_name"`
	DayInCycle       int       `json:"day_in_cycle"`
	CycleLength      int       `json:"cycle_length"`
	NextPeriod       time.Time `json:"next_period"`
	Ovulation        time.Time `json:"ovulation"`
	InFertileWindow  bool      `json:"in_fertile_window"`
	Stale            bool      `json:"stale"`
	Health           Health    `json:"health"`
	Advice           string    `json:"advice"`
	ExpectedSymptoms []string  `json:"expected_symptoms"`
}

// PhaseInfo computes Info for rec at ref.
func PhaseInfo(rec *Record, ref time.Time) Info {
	phase := CurrentPhase(rec, ref)
	return Info{
		Phase:            phase,
		PhaseName:        phase.DisplayName(),
		DayInCycle:       DayInCycle(rec, ref),
		CycleLength:      rec.CycleLength,
		NextPeriod:       PredictNextPeriod(rec),
		Ovulation:        PredictOvulation(rec),
		InFertileWindow:  phase == PhaseOvulation,
		Stale:            IsStale(rec, ref),
		Health:           AssessHealth(rec),
		Advice:           Advice(phase),
		ExpectedSymptoms: ExpectedSymptoms(phase),
	}
}
