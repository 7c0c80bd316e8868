package mocks

import (
	"context"

	"casedocs/internal/classifier"
	"github.com/stretchr/testify/mock"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, name, format string, content []byte) (*classifier.Result, error) {
	args := m.Called(ctx, name, format, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Result), args.Error(1)
}
