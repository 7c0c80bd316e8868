package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"casedocs/internal/model"
	"casedocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Classification categories and important terms are stored as JSONB so readers
// get the structured form back without re-parsing an opaque blob.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, name, format, size, storage_path, classification_status, categories, important_terms, failure_reason, uploaded_at`

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, name, format, size, storage_path, classification_status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.Format,
		doc.Size,
		doc.StoragePath,
		string(doc.Classification.Status),
		doc.UploadedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns all documents, newest first.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY uploaded_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Recent returns at most limit documents ordered by upload time descending.
func (r *DocumentPostgres) Recent(ctx context.Context, limit int) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// UpdateClassification replaces the classification outcome of one document.
func (r *DocumentPostgres) UpdateClassification(ctx context.Context, id string, c model.Classification) error {
	const q = `
		UPDATE documents
		SET classification_status = $2, categories = $3, important_terms = $4, failure_reason = $5
		WHERE id = $1
	`
	categories, err := marshalNullable(c.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	terms, err := marshalNullable(c.ImportantTerms)
	if err != nil {
		return fmt.Errorf("marshal important terms: %w", err)
	}

	res, err := r.db.ExecContext(ctx, q, id, string(c.Status), categories, terms, nullableString(c.FailureReason))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByDay returns upload counts bucketed by calendar day, ascending by date.
func (r *DocumentPostgres) CountByDay(ctx context.Context) ([]repository.DayCount, error) {
	const q = `
		SELECT to_char(uploaded_at, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM documents
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]repository.DayCount, 0)
	for rows.Next() {
		var b repository.DayCount
		if err := rows.Scan(&b.Date, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d          model.Document
		status     string
		categories []byte
		terms      []byte
		reason     sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Format,
		&d.Size,
		&d.StoragePath,
		&status,
		&categories,
		&terms,
		&reason,
		&d.UploadedAt,
	); err != nil {
		return nil, err
	}

	d.Classification.Status = model.ClassificationStatus(status)
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &d.Classification.Categories); err != nil {
			return nil, fmt.Errorf("unmarshal categories: %w", err)
		}
	}
	if len(terms) > 0 {
		if err := json.Unmarshal(terms, &d.Classification.ImportantTerms); err != nil {
			return nil, fmt.Errorf("unmarshal important terms: %w", err)
		}
	}
	if reason.Valid {
		d.Classification.FailureReason = reason.String
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func marshalNullable(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
