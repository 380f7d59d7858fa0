package store

import "time"

// Review statuses a submission moves through after intake.
const (
	StatusNew      = "new"
	StatusInReview = "in-review"
	StatusComplete = "complete"
)

// KnownStatus reports whether a status value is one the review workflow
// understands.
func KnownStatus(status string) bool {
	switch status {
	case StatusNew, StatusInReview, StatusComplete:
		return true
	default:
		return false
	}
}

// Submission is a stored intake submission row.
type Submission struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	Website            string
	Brief              string
	Audience           string
	Tones              []string
	ToneOther          string
	FootageTypes       []string
	FootageOther       string
	CredibilityMarkers []string
	CredibilityOther   string
	AdditionalInfo     string
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReelExample is a stored reference link row belonging to a submission.
type ReelExample struct {
	ID           string
	SubmissionID string
	Link         string
	Comment      string
	Position     int
	CreatedAt    time.Time
}

// SubmissionFile is a stored attachment row belonging to a submission.
type SubmissionFile struct {
	ID           string
	SubmissionID string
	FileName     string
	ContentType  string
	SizeBytes    int64
	StoragePath  string
	CreatedAt    time.Time
}

// SubmissionNote is an internal review note row belonging to a submission.
type SubmissionNote struct {
	ID           string
	SubmissionID string
	Author       string
	Body         string
	CreatedAt    time.Time
}
