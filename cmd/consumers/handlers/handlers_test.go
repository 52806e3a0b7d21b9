package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sepagateway/internal/audit"
	"sepagateway/internal/events"
	"sepagateway/internal/notification"
	"sepagateway/kit/broker"
	"sepagateway/kit/observability"
)

func TestAuditEvent_HandleAny(t *testing.T) {
	ctx := context.Background()
	evt := events.MandateStored{SubscriberReference: "42", Rum: "R1", At: time.Now().UTC()}

	var tests = []struct {
		name        string
		handler     func() (*AuditEvent, *AuditorMock)
		expectedErr error
	}{
		{
			name: "nil auditor",
			handler: func() (*AuditEvent, *AuditorMock) {
				return NewAuditEvent(nil), nil
			},
		},
		{
			name: "records event",
			handler: func() (*AuditEvent, *AuditorMock) {
				a := new(AuditorMock)
				a.On("Record", ctx, evt).Return(nil)
				return NewAuditEvent(a), a
			},
		},
		{
			name: "record failure is returned",
			handler: func() (*AuditEvent, *AuditorMock) {
				a := new(AuditorMock)
				a.On("Record", ctx, evt).Return(errors.New("disk full"))
				return NewAuditEvent(a), a
			},
			expectedErr: errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, a := tt.handler()
			err := h.HandleAny(ctx, evt)
			if tt.expectedErr != nil {
				require.EqualError(t, err, tt.expectedErr.Error())
			} else {
				require.NoError(t, err)
			}
			if a != nil {
				a.AssertExpectations(t)
			}
		})
	}
}

func TestMetricsEvent_HandleAny(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name   string
		evt    broker.Event
		method string
	}{
		{name: "cart cleared", evt: events.CartCleared{OrderID: "1"}, method: "CartsClearedAdd"},
		{name: "subscriptions activated", evt: events.SubscriptionsActivated{OrderID: "1"}, method: "SubscriptionsActivatedAdd"},
		{name: "other events are ignored", evt: events.OrderPaid{OrderID: "1"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := new(MetricsMock)
			if tt.method != "" {
				m.On(tt.method, int64(1)).Return()
			}
			require.NoError(t, NewMetricsEvent(m).HandleAny(ctx, tt.evt))
			m.AssertExpectations(t)
			if tt.method == "" {
				m.AssertNotCalled(t, "CartsClearedAdd", mock.Anything)
				m.AssertNotCalled(t, "SubscriptionsActivatedAdd", mock.Anything)
			}
		})
	}
}

func TestNotificationEvent(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name            string
		evt             broker.Event
		handle          func(h *NotificationEvent) func(context.Context, broker.Event) error
		expectedSubject string
		expectedTo      string
		expectedErr     error
	}{
		{
			name: "mandate inactive asks for a new mandate",
			evt:  events.RecurringChargeFailed{SubscriberReference: "42", Reason: "gone.", MandateInactive: true},
			handle: func(h *NotificationEvent) func(context.Context, broker.Event) error {
				return h.HandleRecurringChargeFailed
			},
			expectedSubject: "Direct-debit mandate no longer active",
			expectedTo:      "42",
		},
		{
			name: "other recurring failure",
			evt:  events.RecurringChargeFailed{SubscriberReference: "guest_12", Reason: "503"},
			handle: func(h *NotificationEvent) func(context.Context, broker.Event) error {
				return h.HandleRecurringChargeFailed
			},
			expectedSubject: "Scheduled payment failed",
			expectedTo:      "guest_12",
		},
		{
			name: "signature failed",
			evt:  events.SignatureFailed{OrderID: "12", SubscriberReference: "42"},
			handle: func(h *NotificationEvent) func(context.Context, broker.Event) error {
				return h.HandleSignatureFailed
			},
			expectedSubject: "Mandate signature not completed",
			expectedTo:      "42",
		},
		{
			name: "unexpected event type",
			evt:  events.OrderPaid{},
			handle: func(h *NotificationEvent) func(context.Context, broker.Event) error {
				return h.HandleSignatureFailed
			},
			expectedErr: ErrUnexpectedEventType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := new(NotifierMock)
			if tt.expectedErr == nil {
				n.On("Notify", ctx, tt.expectedTo, tt.expectedSubject, mock.AnythingOfType("string")).Return()
			}
			err := tt.handle(NewNotificationEvent(n))(ctx, tt.evt)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			n.AssertExpectations(t)
		})
	}
}

func TestRegister_WiresConsumers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := broker.New()
	logger := observability.NewLogger()

	auditSvc, err := audit.NewServiceWithFile(logger, filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = auditSvc.Close() })
	metricsKit := observability.NewMetrics()
	notifier := notification.NewService(logger)

	Register(bus, NewAuditEvent(auditSvc), NewMetricsEvent(metricsKit), NewNotificationEvent(notifier))

	require.Empty(t, bus.Publish(ctx, events.CartCleared{OrderID: "12"}))
	require.Empty(t, bus.Publish(ctx, events.RecurringChargeFailed{OrderID: "20", ParentOrderID: "12", SubscriberReference: "42", Reason: "x", MandateInactive: true}))

	require.Equal(t, int64(1), metricsKit.CartsCleared.Load())
	sent := notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "42", sent[0].Recipient)
}
