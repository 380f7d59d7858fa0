package form

import (
	"fmt"
	"regexp"
	"strings"
)

// StepResult is the outcome of validating one step.
type StepResult struct {
	IsValid      bool
	ErrorMessage string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator runs the step checklists. The zero value enforces the
// repository default reel example limit; set MaxReelExamples to override it.
type Validator struct {
	MaxReelExamples int
}

// ValidateStep runs the fixed, ordered checklist for the given step against
// the snapshot. Validation short-circuits at the first failing predicate, so
// the returned message is always the first unmet requirement in step order.
// Steps outside [1, StepCount] and the final review step validate clean; the
// final-step additional-info requirement is checked by ValidateFinal at
// submission time instead.
func (v Validator) ValidateStep(step int, s FormSnapshot) StepResult {
	for _, check := range v.stepChecks(step) {
		if message := check(s); message != "" {
			return StepResult{IsValid: false, ErrorMessage: message}
		}
	}
	return StepResult{IsValid: true}
}

// ValidateStep validates with the default limits.
func ValidateStep(step int, s FormSnapshot) StepResult {
	return Validator{}.ValidateStep(step, s)
}

func (v Validator) maxReelExamples() int {
	if v.MaxReelExamples > 0 {
		return v.MaxReelExamples
	}
	return MaxReelExamples
}

// ValidateFinal enforces the submission-time requirement on the final step:
// additional info must be filled in, if only with the explicit N/A marker.
func ValidateFinal(s FormSnapshot) StepResult {
	if strings.TrimSpace(s.AdditionalInfo) == "" {
		return StepResult{IsValid: false, ErrorMessage: `Please add any additional information, or enter "N/A".`}
	}
	return StepResult{IsValid: true}
}

type predicate func(FormSnapshot) string

func (v Validator) stepChecks(step int) []predicate {
	switch step {
	case 1:
		return contactChecks
	case 2:
		return projectChecks
	case 3:
		return styleChecks
	case 4:
		return v.proofChecks()
	default:
		return nil
	}
}

// Predicate order within each slice is part of the contract: the first
// failing entry determines the message the user sees.
var contactChecks = []predicate{
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Name) == "" {
			return "Please enter your name."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Email) == "" {
			return "Please enter your email address."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if !emailPattern.MatchString(strings.TrimSpace(s.Email)) {
			return "Please enter a valid email address."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Phone) == "" {
			return "Please enter your phone number."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if countDigits(s.Phone) < 10 {
			return "Please enter a valid phone number with at least 10 digits."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Website) == "" {
			return "Please enter your website or primary social link."
		}
		return ""
	},
}

var projectChecks = []predicate{
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Brief) == "" {
			return "Please describe the problem you want this video to solve."
		}
		return ""
	},
	func(s FormSnapshot) string {
		if strings.TrimSpace(s.Audience) == "" {
			return "Please describe your target audience."
		}
		return ""
	},
}

var styleChecks = []predicate{
	func(s FormSnapshot) string {
		if len(s.Tones) == 0 {
			return "Please select at least one tone."
		}
		return ""
	},
	func(s FormSnapshot) string {
		return otherCompanion(s.Tones, s.ToneOther, "tone")
	},
	func(s FormSnapshot) string {
		if len(s.FootageTypes) == 0 {
			return "Please select at least one footage type."
		}
		return ""
	},
	func(s FormSnapshot) string {
		return otherCompanion(s.FootageTypes, s.FootageOther, "footage type")
	},
}

func (v Validator) proofChecks() []predicate {
	limit := v.maxReelExamples()
	return []predicate{
		func(s FormSnapshot) string {
			if len(s.ReelExamples) == 0 {
				return "Please add at least one reel example."
			}
			return ""
		},
		func(s FormSnapshot) string {
			if len(s.ReelExamples) > limit {
				return fmt.Sprintf("Please limit reel examples to %d.", limit)
			}
			return ""
		},
		func(s FormSnapshot) string {
			for _, example := range s.ReelExamples {
				if strings.TrimSpace(example.Link) == "" || strings.TrimSpace(example.Comment) == "" {
					return "Please fill in the link and comment for every reel example."
				}
			}
			return ""
		},
		func(s FormSnapshot) string {
			if len(s.CredibilityMarkers) == 0 {
				return "Please select at least one credibility marker."
			}
			return ""
		},
		func(s FormSnapshot) string {
			return otherCompanion(s.CredibilityMarkers, s.CredibilityOther, "credibility marker")
		},
	}
}

func otherCompanion(tags []string, companion, label string) string {
	if HasTag(tags, TagOther) && strings.TrimSpace(companion) == "" {
		return `Please describe the "other" ` + label + " you have in mind."
	}
	return ""
}

func countDigits(value string) int {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
