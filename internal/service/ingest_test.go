package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"casedocs/internal/model"
	repoMocks "casedocs/internal/repository/mocks"
	"casedocs/internal/storage"
	storeMocks "casedocs/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var defaultAllowedTypes = []string{"txt", "pdf", "doc", "docx", "png", "jpg", "jpeg"}

func newIngest(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) IngestService {
	return NewIngestService(mStore, mRepo, 10, defaultAllowedTypes)
}

func echoCreate(mRepo *repoMocks.MockDocumentRepository) {
	mRepo.On("Create", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, doc *model.Document) *model.Document {
			return doc
		}, nil)
}

func TestIngestService_UploadBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path preserves input order", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		echoCreate(mRepo)

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Format: "text/plain", Content: []byte("alpha")},
			{Name: "b.pdf", Format: "application/pdf", Content: []byte("bravo")},
		})

		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.Equal(t, "a.txt", outcomes[0].Name)
		assert.Equal(t, "b.pdf", outcomes[1].Name)
		for _, o := range outcomes {
			assert.NoError(t, o.Err)
			assert.NotEmpty(t, o.DocumentID)
		}
		assert.NotEqual(t, outcomes[0].DocumentID, outcomes[1].DocumentID)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("document carries size and pending classification", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, storage.PutObjectOptions{
			Size:        5,
			ContentType: "text/plain",
			Metadata:    map[string]string{"original-filename": "a.txt"},
		}).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Size == 5 &&
				doc.Name == "a.txt" &&
				doc.Classification.Status == model.StatusPending &&
				strings.HasSuffix(doc.StoragePath, ".txt")
		})).Return(&model.Document{ID: "stored-id"}, nil)

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Format: "text/plain", Content: []byte("alpha")},
		})

		require.NoError(t, err)
		assert.Equal(t, "stored-id", outcomes[0].DocumentID)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := newIngest(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository))

		_, err := svc.UploadBatch(ctx, nil)

		assert.ErrorIs(t, err, ErrBatchEmpty)
	})

	t.Run("batch over the cap", func(t *testing.T) {
		svc := NewIngestService(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository), 2, defaultAllowedTypes)

		_, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Content: []byte("x")},
			{Name: "b.txt", Content: []byte("x")},
			{Name: "c.txt", Content: []byte("x")},
		})

		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})

	t.Run("disallowed type rejected per item", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		echoCreate(mRepo)

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "evil.exe", Format: "application/octet-stream", Content: []byte("x")},
			{Name: "fine.txt", Format: "text/plain", Content: []byte("x")},
		})

		require.NoError(t, err)
		assert.ErrorIs(t, outcomes[0].Err, ErrTypeNotAllowed)
		assert.Empty(t, outcomes[0].DocumentID)
		assert.NoError(t, outcomes[1].Err)
		assert.NotEmpty(t, outcomes[1].DocumentID)
	})

	t.Run("empty content rejected per item", func(t *testing.T) {
		svc := newIngest(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository))

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Format: "text/plain"},
		})

		require.NoError(t, err)
		assert.ErrorIs(t, outcomes[0].Err, ErrContentEmpty)
	})

	t.Run("storage failure isolates the item", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".pdf")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage down"))
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".txt")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		echoCreate(mRepo)

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "bad.pdf", Format: "application/pdf", Content: []byte("x")},
			{Name: "good.txt", Format: "text/plain", Content: []byte("x")},
		})

		require.NoError(t, err)
		assert.ErrorContains(t, outcomes[0].Err, "upload to storage")
		assert.NoError(t, outcomes[1].Err)
	})

	t.Run("db failure rolls the object back", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Format: "text/plain", Content: []byte("x")},
		})

		require.NoError(t, err)
		assert.ErrorContains(t, outcomes[0].Err, "db save failed")
		mStore.AssertCalled(t, "Delete", ctx, mock.Anything)
	})

	t.Run("db failure with failed rollback reports both", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newIngest(mStore, mRepo)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))

		outcomes, err := svc.UploadBatch(ctx, []Upload{
			{Name: "a.txt", Format: "text/plain", Content: []byte("x")},
		})

		require.NoError(t, err)
		assert.ErrorContains(t, outcomes[0].Err, "rollback delete failed")
	})
}
