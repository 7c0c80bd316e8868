package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"casedocs/internal/model"
	"casedocs/internal/repository"
	repoMocks "casedocs/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classified(name string, categories ...string) model.Document {
	return model.Document{
		Name:           name,
		Classification: model.Completed(categories, nil),
	}
}

func TestAnalyticsService_CaseTypeCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("every category of every completed document counts", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 10)

		mRepo.On("List", ctx).Return([]model.Document{
			classified("a.txt", "Civil"),
			classified("b.txt", "Civil", "Criminal"),
			classified("c.txt", "Other"),
		}, nil)

		counts, err := svc.CaseTypeCounts(ctx)

		require.NoError(t, err)
		got := make(map[string]int, len(counts))
		for _, c := range counts {
			got[c.CaseType] = c.Count
		}
		assert.Equal(t, map[string]int{"Civil": 2, "Criminal": 1, "Other": 1}, got)
	})

	t.Run("pending and failed documents are excluded", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 10)

		mRepo.On("List", ctx).Return([]model.Document{
			{Name: "pending.txt", Classification: model.Pending()},
			{Name: "failed.txt", Classification: model.Failed("boom")},
			classified("done.txt", "Tax"),
		}, nil)

		counts, err := svc.CaseTypeCounts(ctx)

		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, CaseTypeCount{CaseType: "Tax", Count: 1}, counts[0])
	})

	t.Run("empty corpus", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 10)

		mRepo.On("List", ctx).Return([]model.Document{}, nil)

		counts, err := svc.CaseTypeCounts(ctx)

		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 10)

		mRepo.On("List", ctx).Return(nil, errors.New("db fail"))

		_, err := svc.CaseTypeCounts(ctx)

		assert.Error(t, err)
	})
}

func TestAnalyticsService_RecentActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("maps labels and sentinels", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 10)

		now := time.Now()
		mRepo.On("Recent", ctx, 10).Return([]model.Document{
			{Name: "newest.txt", UploadedAt: now, Classification: model.Completed([]string{"Civil", "Criminal"}, nil)},
			{Name: "middle.txt", UploadedAt: now.Add(-time.Minute), Classification: model.Failed("boom")},
			{Name: "oldest.txt", UploadedAt: now.Add(-time.Hour), Classification: model.Pending()},
		}, nil)

		entries, err := svc.RecentActivity(ctx)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, ActivityEntry{Name: "newest.txt", ClassificationResult: "Civil"}, entries[0])
		assert.Equal(t, ActivityEntry{Name: "middle.txt", ClassificationResult: LabelClassificationFailed}, entries[1])
		assert.Equal(t, ActivityEntry{Name: "oldest.txt", ClassificationResult: LabelNotClassified}, entries[2])
	})

	t.Run("limit is passed to the repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 3)

		mRepo.On("Recent", ctx, 3).Return([]model.Document{}, nil)

		_, err := svc.RecentActivity(ctx)

		require.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewAnalyticsService(mRepo, 0)

		mRepo.On("Recent", ctx, 10).Return([]model.Document{}, nil)

		_, err := svc.RecentActivity(ctx)

		require.NoError(t, err)
		mRepo.AssertExpectations(t)
	})
}

func TestAnalyticsService_Trends(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewAnalyticsService(mRepo, 10)

	buckets := []repository.DayCount{
		{Date: "2024-03-01", Count: 2},
		{Date: "2024-03-02", Count: 1},
	}
	mRepo.On("CountByDay", ctx).Return(buckets, nil)

	got, err := svc.Trends(ctx)

	require.NoError(t, err)
	assert.Equal(t, buckets, got)
}
