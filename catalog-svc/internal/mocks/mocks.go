package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"

	"overcooked-catalog/catalog-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// Observer is a mock of service.Observer.
type Observer struct {
	mock.Mock
}

func (_m *Observer) Notify(event domain.Event) {
	_m.Called(event)
}

func NewObserver(t testingT) *Observer {
	m := &Observer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FixtureSource is a mock of service.FixtureSource.
type FixtureSource struct {
	mock.Mock
}

func (_m *FixtureSource) Load(ctx context.Context) (*domain.Fixture, error) {
	ret := _m.Called(ctx)

	var f *domain.Fixture
	if rf, ok := ret.Get(0).(func(context.Context) *domain.Fixture); ok {
		f = rf(ctx)
	} else if ret.Get(0) != nil {
		f = ret.Get(0).(*domain.Fixture)
	}
	return f, ret.Error(1)
}

func NewFixtureSource(t testingT) *FixtureSource {
	m := &FixtureSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QRGenerator is a mock of service.QRGenerator.
type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(menuName string) ([]byte, error) {
	ret := _m.Called(menuName)

	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MessageWriter is a mock of storage.MessageWriter.
type MessageWriter struct {
	mock.Mock
}

func (_m *MessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := []interface{}{ctx}
	for _, msg := range msgs {
		args = append(args, msg)
	}
	return _m.Called(args...).Error(0)
}

func NewMessageWriter(t testingT) *MessageWriter {
	m := &MessageWriter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
