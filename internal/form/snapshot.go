package form

import "strings"

const (
	// StepCount is the number of steps in the intake form.
	StepCount = 5

	// MaxReelExamples bounds the reel example list.
	MaxReelExamples = 3

	// TagOther is the reserved tag whose selection requires companion text.
	TagOther = "other"

	// NotApplicable is the explicit marker accepted for optional-but-required
	// free-text fields on the final step.
	NotApplicable = "N/A"
)

// ReelExample is one entry in the bounded reel example list.
type ReelExample struct {
	Link    string `json:"link"`
	Comment string `json:"comment"`
}

// FormSnapshot is the complete in-memory state of the multi-step intake form.
// Every known form key is a declared field; external data merged in (for
// example a restored draft) must match this shape exactly.
type FormSnapshot struct {
	Step int `json:"step"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`

	Brief    string `json:"brief"`
	Audience string `json:"audience"`

	Tones        []string `json:"tones"`
	ToneOther    string   `json:"tone_other"`
	FootageTypes []string `json:"footage_types"`
	FootageOther string   `json:"footage_other"`

	ReelExamples       []ReelExample `json:"reel_examples"`
	CredibilityMarkers []string      `json:"credibility_markers"`
	CredibilityOther   string        `json:"credibility_other"`

	AdditionalInfo string `json:"additional_info"`
}

// NewSnapshot returns the blank initial snapshot positioned at step 1.
func NewSnapshot() FormSnapshot {
	return FormSnapshot{Step: 1}
}

// IsBlank reports whether the snapshot still equals the initial state. Blank
// snapshots are never persisted as drafts.
func (s FormSnapshot) IsBlank() bool {
	if s.Step > 1 {
		return false
	}
	if s.Name != "" || s.Email != "" || s.Phone != "" || s.Website != "" {
		return false
	}
	if s.Brief != "" || s.Audience != "" || s.AdditionalInfo != "" {
		return false
	}
	if s.ToneOther != "" || s.FootageOther != "" || s.CredibilityOther != "" {
		return false
	}
	if len(s.Tones) > 0 || len(s.FootageTypes) > 0 || len(s.CredibilityMarkers) > 0 {
		return false
	}
	return len(s.ReelExamples) == 0
}

// Clone returns a deep copy so callers never share slice backing arrays with
// the machine-owned snapshot.
func (s FormSnapshot) Clone() FormSnapshot {
	out := s
	out.Tones = append([]string(nil), s.Tones...)
	out.FootageTypes = append([]string(nil), s.FootageTypes...)
	out.CredibilityMarkers = append([]string(nil), s.CredibilityMarkers...)
	out.ReelExamples = append([]ReelExample(nil), s.ReelExamples...)
	return out
}

// HasTag reports whether tag is present in tags, ignoring case and
// surrounding whitespace.
func HasTag(tags []string, tag string) bool {
	for _, candidate := range tags {
		if strings.EqualFold(strings.TrimSpace(candidate), tag) {
			return true
		}
	}
	return false
}
