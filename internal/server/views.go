package server

import (
	"time"

	"reelintake/internal/admin"
	"reelintake/internal/store"
)

// submissionView is the JSON projection of a stored submission.
type submissionView struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Website            string    `json:"website"`
	Brief              string    `json:"brief"`
	Audience           string    `json:"audience"`
	Tones              []string  `json:"tones"`
	ToneOther          string    `json:"tone_other,omitempty"`
	FootageTypes       []string  `json:"footage_types"`
	FootageOther       string    `json:"footage_other,omitempty"`
	CredibilityMarkers []string  `json:"credibility_markers"`
	CredibilityOther   string    `json:"credibility_other,omitempty"`
	AdditionalInfo     string    `json:"additional_info"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newSubmissionView(sub *store.Submission) submissionView {
	return submissionView{
		ID:                 sub.ID,
		Name:               sub.Name,
		Email:              sub.Email,
		Phone:              sub.Phone,
		Website:            sub.Website,
		Brief:              sub.Brief,
		Audience:           sub.Audience,
		Tones:              sub.Tones,
		ToneOther:          sub.ToneOther,
		FootageTypes:       sub.FootageTypes,
		FootageOther:       sub.FootageOther,
		CredibilityMarkers: sub.CredibilityMarkers,
		CredibilityOther:   sub.CredibilityOther,
		AdditionalInfo:     sub.AdditionalInfo,
		Status:             sub.Status,
		CreatedAt:          sub.CreatedAt,
		UpdatedAt:          sub.UpdatedAt,
	}
}

type reelExampleView struct {
	ID       string `json:"id"`
	Link     string `json:"link"`
	Comment  string `json:"comment"`
	Position int    `json:"position"`
}

type fileView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type noteView struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type detailView struct {
	Submission   submissionView    `json:"submission"`
	ReelExamples []reelExampleView `json:"reel_examples"`
	Files        []fileView        `json:"files"`
	Notes        []noteView        `json:"notes"`
}

func newDetailView(detail *admin.Detail) detailView {
	view := detailView{
		Submission:   newSubmissionView(detail.Submission),
		ReelExamples: make([]reelExampleView, 0, len(detail.ReelExamples)),
		Files:        make([]fileView, 0, len(detail.Files)),
		Notes:        make([]noteView, 0, len(detail.Notes)),
	}
	for _, example := range detail.ReelExamples {
		view.ReelExamples = append(view.ReelExamples, reelExampleView{
			ID:       example.ID,
			Link:     example.Link,
			Comment:  example.Comment,
			Position: example.Position,
		})
	}
	for _, file := range detail.Files {
		view.Files = append(view.Files, fileView{
			ID:          file.ID,
			FileName:    file.FileName,
			ContentType: file.ContentType,
			SizeBytes:   file.SizeBytes,
			CreatedAt:   file.CreatedAt,
		})
	}
	for _, note := range detail.Notes {
		view.Notes = append(view.Notes, noteView{
			ID:        note.ID,
			Author:    note.Author,
			Body:      note.Body,
			CreatedAt: note.CreatedAt,
		})
	}
	return view
}
