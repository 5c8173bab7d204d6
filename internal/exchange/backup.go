// Package exchange converts diagrams to and from the three exchange
// channels: versioned JSON backups, single plain-text documents, and
// URL-embedded share payloads. All functions are pure; persistence is the
// caller's job.
//
// Codec failures are values inside results, never panics: every input here
// is untrusted (dropped files, pasted URLs).
package exchange

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/models"
)

// BackupVersion is the current backup format version tag.
const BackupVersion = "1.0"

// BackupDocument is the on-disk shape of a full vault backup.
type BackupDocument struct {
	Version    string           `json:"version"`
	ExportDate int64            `json:"exportDate"`
	Diagrams   []models.Diagram `json:"diagrams"`
}

// ImportResult reports the outcome of decoding one exchange input (or, via
// the importer, a whole batch). Success means at least one record survived;
// Errors carries one human-readable string per dropped record or failed file.
type ImportResult struct {
	Success  bool             `json:"success"`
	Imported int              `json:"imported"`
	Errors   []string         `json:"errors"`
	Diagrams []models.Diagram `json:"diagrams,omitempty"`
}

// EncodeBackup wraps the diagrams in a versioned envelope stamped with the
// current time.
func EncodeBackup(diagrams []models.Diagram) ([]byte, error) {
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: models.NowMillis(),
		Diagrams:   diagrams,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("exchange: encode backup: %w", err)
	}
	return data, nil
}

// BackupFilename returns the download name for a backup taken at the given
// time, e.g. mermaid-diagrams-backup-2026-08-29T12-30-05.json.
func BackupFilename(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("mermaid-diagrams-backup-%s.json", stamp)
}

// backupRecord is the validating shape for one element of a backup's
// diagrams array. Pointer fields distinguish absent from zero; a type
// mismatch fails the element's unmarshal.
type backupRecord struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	Theme     *string `json:"theme"`
	CreatedAt *int64  `json:"createdAt"`
	UpdatedAt *int64  `json:"updatedAt"`
}

func (r backupRecord) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.NotNil),
		validation.Field(&r.Name, validation.NotNil),
		validation.Field(&r.Code, validation.NotNil),
		validation.Field(&r.Theme, validation.NotNil),
		validation.Field(&r.CreatedAt, validation.NotNil),
		validation.Field(&r.UpdatedAt, validation.NotNil),
	)
}

// DecodeBackup parses and validates a backup file.
//
// Malformed JSON or a missing version/diagrams envelope fails the whole
// file. Individual records failing validation are dropped and reported in
// Errors by index; valid records are still returned. Every surviving record
// gets a freshly generated id (imported ids are never trusted, to avoid
// colliding with existing records) and UpdatedAt set to now, while name,
// code, theme, and CreatedAt are preserved from the input. Membership is
// not part of the backup channel, so CollectionIDs never survive an import.
func DecodeBackup(data []byte) ImportResult {
	var envelope struct {
		Version  string            `json:"version"`
		Diagrams []json.RawMessage `json:"diagrams"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ImportResult{
			Errors: []string{fmt.Sprintf("failed to parse backup file: %v", err)},
		}
	}
	if envelope.Version == "" || envelope.Diagrams == nil {
		return ImportResult{
			Errors: []string{"invalid backup file format"},
		}
	}

	errs := []string{}
	valid := []models.Diagram{}
	now := models.NowMillis()

	for i, raw := range envelope.Diagrams {
		var rec backupRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			errs = append(errs, fmt.Sprintf("invalid diagram at index %d: %v", i, err))
			continue
		}
		if err := rec.validate(); err != nil {
			errs = append(errs, fmt.Sprintf("invalid diagram at index %d: missing required fields", i))
			continue
		}
		valid = append(valid, models.Diagram{
			ID:        uuid.NewString(),
			Name:      *rec.Name,
			Code:      *rec.Code,
			Theme:     models.Theme(*rec.Theme),
			CreatedAt: *rec.CreatedAt,
			UpdatedAt: now,
		})
	}

	return ImportResult{
		Success:  len(valid) > 0,
		Imported: len(valid),
		Errors:   errs,
		Diagrams: valid,
	}
}
