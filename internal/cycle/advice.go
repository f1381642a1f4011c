// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package cycle

var phaseAdvice = map[Phase]string{
	PhaseMenstrual: "Focus on iron-rich foods and stay hydrated. Gentle movement " +
		"like walking or yoga can ease cramps.",
	PhaseFollicular: "Energy is rising. This is a great time for higher-intensity " +
		"training and complex carbohydrates to fuel it.",
	PhaseOvulation: "You are at peak energy. Keep protein up to support recovery " +
		"and favour anti-inflammatory foods.",
	PhaseEarlyLuteal: "Metabolism is picking up. Add a little more protein and " +
		"healthy fats to stay full and steady.",
	PhaseLateLuteal: "Cravings and bloating are common. Choose magnesium and " +
		"B6-rich foods, and keep salty snacks in check.",
}

var phaseSymptoms = map[Phase][]string{
	PhaseMenstrual:   {"Cramps", "Fatigue", "Lower back pain", "Headaches"},
	PhaseFollicular:  {"Increased energy", "Improved mood", "Better skin"},
	PhaseOvulation:   {"Peak energy", "Increased libido", "Mild bloating"},
	PhaseEarlyLuteal: {"Stable energy", "Good focus"},
	PhaseLateLuteal:  {"Fatigue", "Bloating", "Mood swings", "Food cravings", "Breast tenderness"},
}

// Advice returns short nutrition and lifestyle guidance for the phase.
func Advice(p Phase) string {
	return phaseAdvice[p]
}

// ExpectedSymptoms returns the symptoms commonly reported during the phase.
// The returned slice is a copy.
func ExpectedSymptoms(p Phase) []string {
	src := phaseSymptoms[p]
	out := make([]string, len(src))
	copy(out, src)
	return out
}
