// Package drafts persists in-progress form values so they survive a reload.
//
// Every failure is reported as an Outcome rather than an error: a draft that
// cannot be saved or restored just means the form starts empty.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"financetracker/internal/models"
	"financetracker/internal/services/storage"
)

// DefaultPrefix is prepended to the form id to build the storage key
const DefaultPrefix = "form_"

var (
	ErrCorruptData        = errors.New("stored draft is not a JSON object of strings")
	ErrStorageUnavailable = errors.New("draft storage unavailable")
)

// Kind classifies the result of a draft operation
type Kind string

const (
	Saved              Kind = "saved"
	Restored           Kind = "restored"
	Cleared            Kind = "cleared"
	NoDraft            Kind = "no_draft"
	Skipped            Kind = "skipped"
	CorruptData        Kind = "corrupt_data"
	StorageUnavailable Kind = "storage_unavailable"
)

// Outcome is what a draft operation did. Err is set only for
// CorruptData and StorageUnavailable. Skipped covers an empty form id and
// one the KV rejects as a key.
type Outcome struct {
	Kind     Kind
	Restored int
	Err      error
}

// OK reports whether the operation completed without a failure
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Store saves, restores and clears drafts in a KV
type Store struct {
	kv     storage.KV
	prefix string
	log    zerolog.Logger
}

// New creates a Store. An empty prefix means DefaultPrefix.
func New(kv storage.KV, prefix string, log zerolog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		kv:     kv,
		prefix: prefix,
		log:    log.With().Str("component", "drafts").Logger(),
	}
}

// Key returns the storage key for formID
func (s *Store) Key(formID string) string {
	return s.prefix + formID
}

// Save writes every field of the form under the form's key, replacing any
// previous draft
func (s *Store) Save(formID string, fields models.FieldSource) Outcome {
	if formID == "" {
		return Outcome{Kind: Skipped}
	}

	data, err := json.Marshal(models.Snapshot(fields))
	if err != nil {
		return s.fail(formID, StorageUnavailable, err)
	}
	if err := s.kv.Set(s.Key(formID), data); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return s.skip(formID, err)
		}
		return s.fail(formID, StorageUnavailable, err)
	}

	s.log.Debug().Str("form_id", formID).Int("fields", len(fields.Names())).Msg("draft saved")
	return Outcome{Kind: Saved}
}

// Load copies stored values into the form. Only names the form already has
// are set; fields missing from the draft keep their current value.
func (s *Store) Load(formID string, fields models.FieldSource) Outcome {
	if formID == "" {
		return Outcome{Kind: Skipped}
	}

	values, out := s.read(formID)
	if values == nil {
		return out
	}

	restored := 0
	for name, value := range values {
		if fields.Set(name, value) {
			restored++
		}
	}

	s.log.Debug().Str("form_id", formID).Int("restored", restored).Msg("draft restored")
	return Outcome{Kind: Restored, Restored: restored}
}

// Peek returns the stored draft without applying it
func (s *Store) Peek(formID string) (map[string]string, Outcome) {
	if formID == "" {
		return nil, Outcome{Kind: Skipped}
	}
	values, out := s.read(formID)
	if values == nil {
		return nil, out
	}
	return values, Outcome{Kind: Restored, Restored: len(values)}
}

// Clear removes the draft. Clearing a missing draft succeeds.
func (s *Store) Clear(formID string) Outcome {
	if formID == "" {
		return Outcome{Kind: Skipped}
	}
	if err := s.kv.Delete(s.Key(formID)); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return s.skip(formID, err)
		}
		return s.fail(formID, StorageUnavailable, err)
	}
	return Outcome{Kind: Cleared}
}

// read decodes the stored draft. A nil map means there is nothing to apply
// and the Outcome says why.
func (s *Store) read(formID string) (map[string]string, Outcome) {
	raw, err := s.kv.Get(s.Key(formID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, Outcome{Kind: NoDraft}
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return nil, s.skip(formID, err)
	}
	if err != nil {
		return nil, s.fail(formID, StorageUnavailable, err)
	}

	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		if err == nil {
			err = errors.New("null draft")
		}
		return nil, s.fail(formID, CorruptData, err)
	}
	return values, Outcome{}
}

// skip reports a form id the KV cannot store. Nothing was touched, so it is
// not a failure.
func (s *Store) skip(formID string, cause error) Outcome {
	s.log.Debug().Str("form_id", formID).Err(cause).Msg("draft skipped")
	return Outcome{Kind: Skipped}
}

func (s *Store) fail(formID string, kind Kind, cause error) Outcome {
	sentinel := ErrStorageUnavailable
	if kind == CorruptData {
		sentinel = ErrCorruptData
	}
	err := fmt.Errorf("%w: %v", sentinel, cause)

	s.log.Warn().
		Str("form_id", formID).
		Str("key", s.Key(formID)).
		Str("outcome", string(kind)).
		Err(cause).
		Msg("draft operation failed")

	return Outcome{Kind: kind, Err: err}
}
