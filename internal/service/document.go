package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"casedocs/internal/highlight"
	"casedocs/internal/model"
	"casedocs/internal/repository"
	"casedocs/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrNotText    = errors.New("document is not a text format")
)

// DocumentContent is the read DTO for one document with its raw payload
// rendered as a base64 data URL.
type DocumentContent struct {
	Name           string
	Format         string
	DataURL        string
	ImportantTerms []string
}

// DocumentPreview is the highlighted plain-text rendering of a document.
type DocumentPreview struct {
	Name string
	Text string
}

// DocumentService exposes the read side of the document corpus.
type DocumentService interface {
	// List returns the metadata projection of every document, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Get returns one document with its content encoded as a data URL and
	// the terms extracted by the classifier.
	Get(ctx context.Context, id string) (*DocumentContent, error)

	// Preview returns the document text with every important term wrapped
	// in emphasis markers. Only text formats can be previewed.
	Preview(ctx context.Context, id string) (*DocumentPreview, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs the document read service.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

func (s *documentService) Get(ctx context.Context, id string) (*DocumentContent, error) {
	doc, content, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	terms := doc.Classification.ImportantTerms
	if terms == nil {
		terms = []string{}
	}
	return &DocumentContent{
		Name:           doc.Name,
		Format:         doc.Format,
		DataURL:        fmt.Sprintf("data:%s;base64,%s", doc.Format, base64.StdEncoding.EncodeToString(content)),
		ImportantTerms: terms,
	}, nil
}

func (s *documentService) Preview(ctx context.Context, id string) (*DocumentPreview, error) {
	doc, content, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(doc.Format, "text/") {
		return nil, ErrNotText
	}

	return &DocumentPreview{
		Name: doc.Name,
		Text: highlight.Highlight(string(content), doc.Classification.ImportantTerms),
	}, nil
}

func (s *documentService) fetch(ctx context.Context, id string) (*model.Document, []byte, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read content: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read content: %w", err)
	}
	return doc, content, nil
}
