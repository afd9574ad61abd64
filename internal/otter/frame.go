package otter

import (
	"strconv"
	"strings"
)

// PhaseFromFrame converts a dialect frame value to an exon phase: (3 - frame) mod 3.
// Blank text yields phase 0.
func PhaseFromFrame(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	frame, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	return (3 - frame) % 3, nil
}

// FrameFromPhase converts an exon phase back to a dialect frame value: (3 - phase) mod 3.
func FrameFromPhase(phase int) int {
	return (3 - phase) % 3
}
