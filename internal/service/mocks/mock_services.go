package mocks

import (
	"context"

	"casedocs/internal/model"
	"casedocs/internal/repository"
	"casedocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) UploadBatch(ctx context.Context, uploads []service.Upload) ([]service.UploadOutcome, error) {
	args := m.Called(ctx, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UploadOutcome), args.Error(1)
}

type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) ClassifyBatch(ctx context.Context, ids []string) []service.ClassifyOutcome {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.ClassifyOutcome)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) CaseTypeCounts(ctx context.Context) ([]service.CaseTypeCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CaseTypeCount), args.Error(1)
}

func (m *MockAnalyticsService) RecentActivity(ctx context.Context) ([]service.ActivityEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ActivityEntry), args.Error(1)
}

func (m *MockAnalyticsService) Trends(ctx context.Context) ([]repository.DayCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DayCount), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*service.DocumentContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentContent), args.Error(1)
}

func (m *MockDocumentService) Preview(ctx context.Context, id string) (*service.DocumentPreview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentPreview), args.Error(1)
}
