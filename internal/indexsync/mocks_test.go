package indexsync

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/syntrixbase/docsync/pkg/model"
)

type MockCommandGateway struct {
	mock.Mock
}

func (m *MockCommandGateway) Insert(ctx context.Context, index, typ string, doc model.Document, id model.Identity) error {
	args := m.Called(ctx, index, typ, doc, id)
	return args.Error(0)
}

func (m *MockCommandGateway) Update(ctx context.Context, index, typ string, id model.Identity, doc model.Document) (bool, error) {
	args := m.Called(ctx, index, typ, id, doc)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommandGateway) Delete(ctx context.Context, index, typ string, id model.Identity) error {
	args := m.Called(ctx, index, typ, id)
	return args.Error(0)
}

type MockModelGateway struct {
	mock.Mock
}

func (m *MockModelGateway) Create(ctx context.Context, id model.Identity, doc model.Document) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

func (m *MockModelGateway) UpdateWhere(ctx context.Context, filters model.Filters, doc model.Document) (int64, error) {
	args := m.Called(ctx, filters, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockModelGateway) DeleteWhere(ctx context.Context, filters model.Filters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) IncSynced(op string)                 { m.Called(op) }
func (m *MockMetrics) IncFallback()                        { m.Called() }
func (m *MockMetrics) IncFailure(op string, reason string) { m.Called(op, reason) }
func (m *MockMetrics) ObserveLatency(op string, duration time.Duration) {
	m.Called(op, duration)
}
