package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"casedocs/internal/model"
	repoMocks "casedocs/internal/repository/mocks"
	"casedocs/internal/storage"
	storeMocks "casedocs/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/mock"
)

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("content round-trips through the data url", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, mRepo)

		raw := []byte("original uploaded bytes")
		doc := &model.Document{
			ID:          "doc-1",
			Name:        "ruling.txt",
			Format:      "text/plain",
			StoragePath: "documents/doc-1.txt",
			Classification: model.Completed(
				[]string{"Civil"}, []string{"plaintiff"},
			),
		}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, "documents/doc-1.txt").
			Return(io.NopCloser(strings.NewReader(string(raw))), storage.ObjectInfo{}, nil)

		got, err := svc.Get(ctx, "doc-1")

		require.NoError(t, err)
		prefix := "data:text/plain;base64,"
		require.True(t, strings.HasPrefix(got.DataURL, prefix))
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got.DataURL, prefix))
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
		assert.Equal(t, []string{"plaintiff"}, got.ImportantTerms)
	})

	t.Run("pending document yields empty term set", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, mRepo)

		doc := &model.Document{
			ID:             "doc-1",
			Format:         "text/plain",
			StoragePath:    "documents/doc-1.txt",
			Classification: model.Pending(),
		}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, mock.Anything).
			Return(io.NopCloser(strings.NewReader("x")), storage.ObjectInfo{}, nil)

		got, err := svc.Get(ctx, "doc-1")

		require.NoError(t, err)
		assert.NotNil(t, got.ImportantTerms)
		assert.Empty(t, got.ImportantTerms)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository))

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("storage error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, mRepo)

		doc := &model.Document{ID: "doc-1", StoragePath: "documents/doc-1.txt"}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, "documents/doc-1.txt").
			Return(nil, storage.ObjectInfo{}, errors.New("object gone"))

		_, err := svc.Get(ctx, "doc-1")

		assert.ErrorContains(t, err, "read content")
	})
}

func TestDocumentService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("highlights important terms", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, mRepo)

		doc := &model.Document{
			ID:          "doc-1",
			Name:        "ruling.txt",
			Format:      "text/plain",
			StoragePath: "documents/doc-1.txt",
			Classification: model.Completed(
				[]string{"Civil"}, []string{"fox"},
			),
		}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, mock.Anything).
			Return(io.NopCloser(strings.NewReader("The quick fox")), storage.ObjectInfo{}, nil)

		got, err := svc.Preview(ctx, "doc-1")

		require.NoError(t, err)
		assert.Equal(t, "ruling.txt", got.Name)
		assert.Equal(t, "The quick <mark>fox</mark>", got.Text)
	})

	t.Run("non-text format rejected", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mStore, mRepo)

		doc := &model.Document{ID: "doc-1", Format: "application/pdf", StoragePath: "documents/doc-1.pdf"}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, mock.Anything).
			Return(io.NopCloser(strings.NewReader("%PDF")), storage.ObjectInfo{}, nil)

		_, err := svc.Preview(ctx, "doc-1")

		assert.ErrorIs(t, err, ErrNotText)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(new(storeMocks.MockStorage), mRepo)

	docs := []model.Document{{ID: "a"}, {ID: "b"}}
	mRepo.On("List", ctx).Return(docs, nil)

	got, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, docs, got)
}
