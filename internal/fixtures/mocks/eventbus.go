package mocks

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/stretchr/testify/mock"
)

// MockBus is a mock of eventbus.Bus.
type MockBus struct {
	mock.Mock
}

func NewMockBus(t cleanupT) *MockBus {
	m := &MockBus{}
	track(t, &m.Mock)
	return m
}

func (m *MockBus) Emit(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	m.Called(eventType, handler)
}

var _ eventbus.Bus = (*MockBus)(nil)
