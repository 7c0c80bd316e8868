package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"casedocs/internal/model"
	"casedocs/internal/repository"
	"casedocs/internal/storage"
)

var (
	ErrBatchEmpty     = errors.New("upload batch is empty")
	ErrBatchTooLarge  = errors.New("upload batch exceeds the maximum size")
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrContentEmpty   = errors.New("file content is empty")
)

// Upload is one raw item of an ingestion batch.
type Upload struct {
	Name    string
	Format  string
	Content []byte
}

// UploadOutcome is the per-item result of an ingestion batch. Exactly one of
// DocumentID or Err is set. Outcomes keep the input order.
type UploadOutcome struct {
	Name       string
	DocumentID string
	Err        error
}

// IngestService validates and persists newly uploaded documents, producing
// stable identifiers. A failure on one item never aborts the rest of the
// batch; callers must inspect every outcome.
type IngestService interface {
	UploadBatch(ctx context.Context, uploads []Upload) ([]UploadOutcome, error)
}

type ingestService struct {
	store        storage.Storage
	repo         repository.DocumentRepository
	maxBatchSize int
	allowedExts  map[string]struct{}
}

// NewIngestService constructs the ingestion service. allowedTypes is the
// list of permitted file extensions (without the dot).
func NewIngestService(store storage.Storage, repo repository.DocumentRepository, maxBatchSize int, allowedTypes []string) IngestService {
	exts := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		exts[strings.ToLower(strings.TrimPrefix(t, "."))] = struct{}{}
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 10
	}
	return &ingestService{
		store:        store,
		repo:         repo,
		maxBatchSize: maxBatchSize,
		allowedExts:  exts,
	}
}

// UploadBatch persists every valid item of the batch and reports one outcome
// per input item, in input order. Only an invalid batch as a whole (empty or
// over the cap) returns an error.
func (s *ingestService) UploadBatch(ctx context.Context, uploads []Upload) ([]UploadOutcome, error) {
	if len(uploads) == 0 {
		return nil, ErrBatchEmpty
	}
	if len(uploads) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrBatchTooLarge, len(uploads), s.maxBatchSize)
	}

	outcomes := make([]UploadOutcome, len(uploads))
	for i, u := range uploads {
		outcomes[i] = UploadOutcome{Name: u.Name}
		doc, err := s.ingestOne(ctx, u)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		outcomes[i].DocumentID = doc.ID
	}
	return outcomes, nil
}

func (s *ingestService) ingestOne(ctx context.Context, u Upload) (*model.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Name), "."))
	if _, ok := s.allowedExts[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", ErrTypeNotAllowed, ext)
	}
	if len(u.Content) == 0 {
		return nil, ErrContentEmpty
	}

	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("documents", id+"."+ext))

	// Raw payload goes to object storage first; the row insert references it.
	_, err := s.store.Put(ctx, key, bytes.NewReader(u.Content), storage.PutObjectOptions{
		Size:        int64(len(u.Content)),
		ContentType: u.Format,
		Metadata: map[string]string{
			"original-filename": u.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:             id,
		Name:           u.Name,
		Format:         u.Format,
		Size:           int64(len(u.Content)),
		StoragePath:    key,
		Classification: model.Pending(),
		UploadedAt:     time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}
