package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"reelintake/internal/submission"
)

// collectionColumns lists the filterable and orderable columns per
// collection. Filter and order fields outside this set are rejected before
// any SQL is built.
var collectionColumns = map[string]map[string]struct{}{
	submission.CollectionSubmissions: {
		"id": {}, "name": {}, "email": {}, "status": {}, "created_at": {}, "updated_at": {},
	},
	submission.CollectionReelExamples: {
		"id": {}, "submission_id": {}, "position": {}, "created_at": {},
	},
	submission.CollectionFiles: {
		"id": {}, "submission_id": {}, "file_name": {}, "created_at": {},
	},
	submission.CollectionNotes: {
		"id": {}, "submission_id": {}, "author": {}, "created_at": {},
	},
}

// Insert stores a typed record in the named collection and returns the
// identifier assigned to it.
func (s *Store) Insert(ctx context.Context, collection string, record any) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	id := uuid.NewString()

	switch collection {
	case submission.CollectionSubmissions:
		rec, err := submissionRecord(record)
		if err != nil {
			return "", err
		}
		tones, err := marshalTags(rec.Tones)
		if err != nil {
			return "", err
		}
		footage, err := marshalTags(rec.FootageTypes)
		if err != nil {
			return "", err
		}
		markers, err := marshalTags(rec.CredibilityMarkers)
		if err != nil {
			return "", err
		}
		_, err = s.db.ExecContext(
			ctx,
			`INSERT INTO submissions (
                id, name, email, phone, website, brief, audience,
                tones, tone_other, footage_types, footage_other,
                credibility_markers, credibility_other, additional_info,
                status, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			rec.Name,
			rec.Email,
			rec.Phone,
			rec.Website,
			rec.Brief,
			rec.Audience,
			tones,
			nullableString(rec.ToneOther),
			footage,
			nullableString(rec.FootageOther),
			markers,
			nullableString(rec.CredibilityOther),
			rec.AdditionalInfo,
			rec.Status,
			now,
			now,
		)
		if err != nil {
			return "", classifyError("insert submission", err)
		}
		return id, nil

	case submission.CollectionReelExamples:
		rec, ok := record.(*submission.ReelExampleRecord)
		if !ok {
			return "", fmt.Errorf("unexpected record type %T for %s", record, collection)
		}
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO reel_examples (id, submission_id, link, comment, position, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			id, rec.SubmissionID, rec.Link, rec.Comment, rec.Position, now,
		)
		if err != nil {
			return "", classifyError("insert reel example", err)
		}
		return id, nil

	case submission.CollectionFiles:
		rec, ok := record.(*submission.FileRecord)
		if !ok {
			return "", fmt.Errorf("unexpected record type %T for %s", record, collection)
		}
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO submission_files (id, submission_id, file_name, content_type, size_bytes, storage_path, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, rec.SubmissionID, rec.FileName, nullableString(rec.ContentType), rec.SizeBytes, rec.StoragePath, now,
		)
		if err != nil {
			return "", classifyError("insert submission file", err)
		}
		return id, nil

	case submission.CollectionNotes:
		rec, ok := record.(*submission.NoteRecord)
		if !ok {
			return "", fmt.Errorf("unexpected record type %T for %s", record, collection)
		}
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO submission_notes (id, submission_id, author, body, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			id, rec.SubmissionID, rec.Author, rec.Body, now,
		)
		if err != nil {
			return "", classifyError("insert submission note", err)
		}
		return id, nil

	default:
		return "", fmt.Errorf("unknown collection %q", collection)
	}
}

// Delete removes records matching the filter. An empty filter is rejected so
// a programming error cannot truncate a table.
func (s *Store) Delete(ctx context.Context, collection string, filter submission.Filter) error {
	if len(filter) == 0 {
		return fmt.Errorf("delete from %s requires a filter", collection)
	}
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM `+collection+where, args...)
	if err != nil {
		return classifyError("delete from "+collection, err)
	}
	return nil
}

// Query returns records matching the filter as generic rows in the requested
// order.
func (s *Store) Query(ctx context.Context, collection string, filter submission.Filter, order submission.Order) ([]map[string]any, error) {
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM ` + collection + where
	if order.Field != "" {
		if _, ok := collectionColumns[collection][order.Field]; !ok {
			return nil, fmt.Errorf("unknown order field %q for %s", order.Field, collection)
		}
		query += ` ORDER BY ` + order.Field
		if order.Descending {
			query += ` DESC`
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError("query "+collection, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func buildWhere(collection string, filter submission.Filter) (string, []any, error) {
	allowed, ok := collectionColumns[collection]
	if !ok {
		return "", nil, fmt.Errorf("unknown collection %q", collection)
	}
	if len(filter) == 0 {
		return "", nil, nil
	}

	clause := ` WHERE `
	args := make([]any, 0, len(filter))
	first := true
	for _, field := range sortedKeys(filter) {
		if _, ok := allowed[field]; !ok {
			return "", nil, fmt.Errorf("unknown filter field %q for %s", field, collection)
		}
		if !first {
			clause += ` AND `
		}
		clause += field + ` = ?`
		args = append(args, filter[field])
		first = false
	}
	return clause, args, nil
}

func sortedKeys(filter submission.Filter) []string {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func submissionRecord(record any) (*submission.Record, error) {
	switch rec := record.(type) {
	case *submission.Record:
		return rec, nil
	case submission.Record:
		return &rec, nil
	default:
		return nil, fmt.Errorf("unexpected record type %T for submissions", record)
	}
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
