package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ListOptions narrows ListSubmissions. Zero values mean no filtering.
type ListOptions struct {
	// Status restricts results to a single review status.
	Status string
	// Search matches name or email case-insensitively as a substring.
	Search string
}

const submissionColumns = "id, name, email, phone, website, brief, audience, tones, tone_other, footage_types, footage_other, credibility_markers, credibility_other, additional_info, status, created_at, updated_at"

// ListSubmissions returns submissions newest first, optionally filtered by
// status and free-text search over name and email.
func (s *Store) ListSubmissions(ctx context.Context, opts ListOptions) ([]*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var (
		clauses []string
		args    []any
	)
	if opts.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Search != "" {
		clauses = append(clauses, `(name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE)`)
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

// GetSubmission fetches a submission by identifier. It returns nil when no
// row matches.
func (s *Store) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// UpdateStatus moves a submission to a new review status. It reports whether
// a row was updated.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if !KnownStatus(status) {
		return false, fmt.Errorf("unknown status %q", status)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReelExamplesFor returns the reel example rows for a submission in position
// order.
func (s *Store) ReelExamplesFor(ctx context.Context, submissionID string) ([]*ReelExample, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, submission_id, link, comment, position, created_at
         FROM reel_examples WHERE submission_id = ? ORDER BY position`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query reel examples: %w", err)
	}
	defer rows.Close()

	var examples []*ReelExample
	for rows.Next() {
		var (
			example    ReelExample
			createdRaw string
		)
		if err := rows.Scan(&example.ID, &example.SubmissionID, &example.Link, &example.Comment, &example.Position, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan reel example: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			example.CreatedAt = created
		}
		examples = append(examples, &example)
	}
	return examples, rows.Err()
}

// FilesFor returns the attachment rows for a submission.
func (s *Store) FilesFor(ctx context.Context, submissionID string) ([]*SubmissionFile, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, submission_id, file_name, content_type, size_bytes, storage_path, created_at
         FROM submission_files WHERE submission_id = ? ORDER BY created_at`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query submission files: %w", err)
	}
	defer rows.Close()

	var files []*SubmissionFile
	for rows.Next() {
		var (
			file        SubmissionFile
			contentType sql.NullString
			createdRaw  string
		)
		if err := rows.Scan(&file.ID, &file.SubmissionID, &file.FileName, &contentType, &file.SizeBytes, &file.StoragePath, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan submission file: %w", err)
		}
		file.ContentType = contentType.String
		if created, err := parseTimeString(createdRaw); err == nil {
			file.CreatedAt = created
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

// NotesFor returns the review notes for a submission oldest first.
func (s *Store) NotesFor(ctx context.Context, submissionID string) ([]*SubmissionNote, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, submission_id, author, body, created_at
         FROM submission_notes WHERE submission_id = ? ORDER BY created_at`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query submission notes: %w", err)
	}
	defer rows.Close()

	var notes []*SubmissionNote
	for rows.Next() {
		var (
			note       SubmissionNote
			createdRaw string
		)
		if err := rows.Scan(&note.ID, &note.SubmissionID, &note.Author, &note.Body, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan submission note: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			note.CreatedAt = created
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// Stats returns a count of submissions grouped by review status.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("submission stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*Submission, error) {
	var (
		sub              Submission
		tonesRaw         string
		toneOther        sql.NullString
		footageRaw       string
		footageOther     sql.NullString
		markersRaw       string
		credibilityOther sql.NullString
		createdRaw       string
		updatedRaw       string
	)

	if err := scanner.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Phone,
		&sub.Website,
		&sub.Brief,
		&sub.Audience,
		&tonesRaw,
		&toneOther,
		&footageRaw,
		&footageOther,
		&markersRaw,
		&credibilityOther,
		&sub.AdditionalInfo,
		&sub.Status,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sub.ToneOther = toneOther.String
	sub.FootageOther = footageOther.String
	sub.CredibilityOther = credibilityOther.String

	var err error
	if sub.Tones, err = unmarshalTags(tonesRaw); err != nil {
		return nil, fmt.Errorf("decode tones: %w", err)
	}
	if sub.FootageTypes, err = unmarshalTags(footageRaw); err != nil {
		return nil, fmt.Errorf("decode footage types: %w", err)
	}
	if sub.CredibilityMarkers, err = unmarshalTags(markersRaw); err != nil {
		return nil, fmt.Errorf("decode credibility markers: %w", err)
	}

	if created, err := parseTimeString(createdRaw); err == nil {
		sub.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		sub.UpdatedAt = updated
	}
	return &sub, nil
}

func unmarshalTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
