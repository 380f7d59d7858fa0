package testsupport

import (
	"fmt"

	"reelintake/internal/form"
	"reelintake/internal/submission"
)

// CompleteSnapshot returns a form snapshot that passes every step and the
// final check. The suffix keeps unique-constrained fields distinct between
// fixtures.
func CompleteSnapshot(suffix string) form.FormSnapshot {
	return form.FormSnapshot{
		Step:               form.StepCount,
		Name:               "Client " + suffix,
		Email:              fmt.Sprintf("client-%s@example.com", suffix),
		Phone:              "5558675309",
		Website:            "https://example.com/" + suffix,
		Brief:              "Launch video for a product release.",
		Audience:           "Video editors evaluating the studio.",
		Tones:              []string{"energetic"},
		FootageTypes:       []string{"screen capture"},
		CredibilityMarkers: []string{"client logos"},
		ReelExamples: []form.ReelExample{
			{Link: "https://vimeo.com/100", Comment: "pacing"},
		},
		AdditionalInfo: form.NotApplicable,
	}
}

// CompleteRecord returns the normalized record for a complete snapshot.
func CompleteRecord(suffix string) submission.Record {
	return submission.NewRecord(CompleteSnapshot(suffix))
}
