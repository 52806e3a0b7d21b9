package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sepagateway/kit/broker"
)

type AuditorMock struct {
	mock.Mock
	AuditorContract
}

func (m *AuditorMock) Record(ctx context.Context, evt broker.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MetricsMock struct {
	mock.Mock
	MetricsContract
}

func (m *MetricsMock) CartsClearedAdd(n int64) {
	m.Called(n)
}

func (m *MetricsMock) SubscriptionsActivatedAdd(n int64) {
	m.Called(n)
}

type NotifierMock struct {
	mock.Mock
	NotifierContract
}

func (m *NotifierMock) Notify(ctx context.Context, recipient, subject, body string) {
	m.Called(ctx, recipient, subject, body)
}
