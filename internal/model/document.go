package model

import "time"

// Document represents a stored upload in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// Name, Format, Size and the raw content (kept in object storage under
// StoragePath) are immutable after creation; only Classification changes,
// once per classification attempt.
type Document struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Format         string         `json:"format"`
	Size           int64          `json:"size"`
	StoragePath    string         `json:"storage_path"`
	Classification Classification `json:"classification"`
	UploadedAt     time.Time      `json:"uploaded_at"`
}
