package repository

import (
	"context"

	"casedocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
// Operations are independent per document; no cross-document transaction is
// required or assumed.
type DocumentRepository interface {
	// Create inserts a new document record with a pending classification.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID. Returns sql.ErrNoRows when the
	// id is unknown.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns the metadata projection of all documents, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Recent returns at most limit documents ordered by upload time descending.
	Recent(ctx context.Context, limit int) ([]model.Document, error)

	// UpdateClassification replaces the classification outcome of one
	// document. Returns sql.ErrNoRows when the id is unknown.
	UpdateClassification(ctx context.Context, id string, c model.Classification) error

	// CountByDay returns upload counts bucketed by calendar day, ascending
	// by date.
	CountByDay(ctx context.Context) ([]DayCount, error)
}

// DayCount is one day-granularity upload bucket.
type DayCount struct {
	Date  string `json:"_id"` // YYYY-MM-DD
	Count int    `json:"count"`
}
