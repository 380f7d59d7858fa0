package submission

import (
	"strings"

	"reelintake/internal/form"
)

// StatusNew is the initial review status assigned to every new submission.
const StatusNew = "new"

// Record is the normalized projection of a form snapshot, ready for the
// external store. Required fields default to empty strings and array fields
// to empty arrays, never nil, to satisfy the store's not-null constraints.
// Records are never mutated after construction.
type Record struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Website            string   `json:"website"`
	Brief              string   `json:"brief"`
	Audience           string   `json:"audience"`
	Tones              []string `json:"tones"`
	ToneOther          string   `json:"tone_other"`
	FootageTypes       []string `json:"footage_types"`
	FootageOther       string   `json:"footage_other"`
	CredibilityMarkers []string `json:"credibility_markers"`
	CredibilityOther   string   `json:"credibility_other"`
	AdditionalInfo     string   `json:"additional_info"`
	Status             string   `json:"status"`
}

// ReelExampleRecord is a child row referencing its owning submission.
type ReelExampleRecord struct {
	SubmissionID string `json:"submission_id"`
	Link         string `json:"link"`
	Comment      string `json:"comment"`
	Position     int    `json:"position"`
}

// FileRecord is an uploaded attachment row referencing its owning submission.
type FileRecord struct {
	SubmissionID string `json:"submission_id"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	StoragePath  string `json:"storage_path"`
}

// NoteRecord is an internal review note attached to a submission.
type NoteRecord struct {
	SubmissionID string `json:"submission_id"`
	Author       string `json:"author"`
	Body         string `json:"body"`
}

// NewRecord normalizes a snapshot into a Record with status "new".
func NewRecord(s form.FormSnapshot) Record {
	return Record{
		Name:               strings.TrimSpace(s.Name),
		Email:              strings.TrimSpace(s.Email),
		Phone:              strings.TrimSpace(s.Phone),
		Website:            strings.TrimSpace(s.Website),
		Brief:              strings.TrimSpace(s.Brief),
		Audience:           strings.TrimSpace(s.Audience),
		Tones:              normalizeTags(s.Tones),
		ToneOther:          strings.TrimSpace(s.ToneOther),
		FootageTypes:       normalizeTags(s.FootageTypes),
		FootageOther:       strings.TrimSpace(s.FootageOther),
		CredibilityMarkers: normalizeTags(s.CredibilityMarkers),
		CredibilityOther:   strings.TrimSpace(s.CredibilityOther),
		AdditionalInfo:     strings.TrimSpace(s.AdditionalInfo),
		Status:             StatusNew,
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// missingRequiredFields re-checks the fields the store requires as non-null,
// independent of the UI-level rules engine.
func missingRequiredFields(s form.FormSnapshot) []string {
	required := []struct {
		label string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"phone", s.Phone},
		{"website", s.Website},
		{"brief", s.Brief},
		{"audience", s.Audience},
		{"additional info", s.AdditionalInfo},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.label)
		}
	}
	return missing
}
