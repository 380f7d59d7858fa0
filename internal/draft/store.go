package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"reelintake/internal/form"
	"reelintake/internal/logging"
)

// Status tags a persisted draft.
type Status string

const (
	// StatusDraft marks a snapshot saved while the user edits.
	StatusDraft Status = "draft"
	// StatusFailed marks a snapshot retained after a hard submission failure
	// so the user can retry without re-entering data.
	StatusFailed Status = "failed"
)

// StoredFormData is the persistence envelope for a form snapshot.
type StoredFormData struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    Status            `json:"status"`
	Data      form.FormSnapshot `json:"data"`
}

// Store persists form snapshots to a durable local key-value store. It only
// ever holds serialized copies; the live snapshot stays with its owner.
type Store struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// NewStore wraps the given key-value collaborator.
func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logging.NewComponentLogger(logger, "draft"),
		now:    time.Now,
	}
}

// Save persists the snapshot under key with status "draft".
func (s *Store) Save(key string, snapshot form.FormSnapshot) error {
	return s.save(key, snapshot, StatusDraft)
}

// MarkFailed persists the snapshot under key with status "failed". The data
// is retained, not cleared, so a retry can pick it up.
func (s *Store) MarkFailed(key string, snapshot form.FormSnapshot) error {
	return s.save(key, snapshot, StatusFailed)
}

func (s *Store) save(key string, snapshot form.FormSnapshot, status Status) error {
	envelope := StoredFormData{
		Timestamp: s.now().UTC(),
		Status:    status,
		Data:      snapshot,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.kv.SetItem(key, string(data)); err != nil {
		return fmt.Errorf("persist draft: %w", err)
	}
	return nil
}

// Load returns the stored draft for key, or nil when no entry exists or the
// stored payload cannot be decoded. Corrupt payloads fail soft: they are
// logged and treated as absent rather than surfaced to the caller. Unknown
// fields in the payload count as corruption so a restored draft can never
// smuggle keys the snapshot type does not declare.
func (s *Store) Load(key string) (*StoredFormData, error) {
	raw, found, err := s.kv.GetItem(key)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !found {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.DisallowUnknownFields()

	var envelope StoredFormData
	if err := decoder.Decode(&envelope); err != nil {
		s.logger.Warn("discarding undecodable draft",
			logging.String(logging.FieldDraftKey, key),
			logging.Error(err))
		return nil, nil
	}
	if envelope.Status != StatusDraft && envelope.Status != StatusFailed {
		s.logger.Warn("discarding draft with unknown status",
			logging.String(logging.FieldDraftKey, key),
			logging.String("status", string(envelope.Status)))
		return nil, nil
	}
	return &envelope, nil
}

// Clear removes the stored draft for key.
func (s *Store) Clear(key string) error {
	if err := s.kv.RemoveItem(key); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
