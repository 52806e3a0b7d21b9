package readmodels

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sepagateway/internal/audit"
	"sepagateway/internal/events"
	"sepagateway/kit/broker"
	"sepagateway/kit/db"
	"sepagateway/kit/observability"
)

func TestProjector_Apply(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name      string
		evts      []broker.Event
		orderID   string
		wantStage Stage
		check     func(t *testing.T, v PaymentView)
	}{
		{
			name: "first checkout paid",
			evts: []broker.Event{
				events.SignatureStarted{OrderID: "12", SubscriberReference: "42", SessionReference: "order_12_n1", At: now},
				events.MandateStored{SubscriberReference: "42", Rum: "R1", OrderID: "12", At: now.Add(time.Minute)},
				events.DirectDebitCreated{OrderID: "12", DirectDebitID: "dd-1", PaymentReference: "order_12", Rum: "R1", Amount: 5000, At: now.Add(2 * time.Minute)},
				events.OrderPaid{OrderID: "12", TransactionID: "dd-1", Amount: 5000, At: now.Add(2 * time.Minute)},
			},
			orderID:   "12",
			wantStage: StagePaid,
			check: func(t *testing.T, v PaymentView) {
				require.Equal(t, "R1", v.Rum)
				require.Equal(t, "dd-1", v.DirectDebitID)
				require.Equal(t, "order_12", v.PaymentReference)
				require.Equal(t, "42", v.Subscriber)
			},
		},
		{
			name: "signature failed keeps the reason",
			evts: []broker.Event{
				events.SignatureStarted{OrderID: "13", SubscriberReference: "guest_13", At: now},
				events.SignatureFailed{OrderID: "13", SubscriberReference: "guest_13", State: "closed.aborted", Reason: "aborted", At: now.Add(time.Minute)},
			},
			orderID:   "13",
			wantStage: StageSignatureFailed,
			check: func(t *testing.T, v PaymentView) {
				require.Equal(t, "aborted", v.Reason)
			},
		},
		{
			name: "stale event is ignored",
			evts: []broker.Event{
				events.OrderPaid{OrderID: "14", TransactionID: "dd-9", Amount: 100, At: now.Add(time.Hour)},
				events.RecurringChargeFailed{OrderID: "14", Reason: "late", At: now},
			},
			orderID:   "14",
			wantStage: StagePaid,
			check: func(t *testing.T, v PaymentView) {
				require.Equal(t, "dd-9", v.DirectDebitID)
				require.Empty(t, v.Reason)
			},
		},
		{
			name: "recurring failure",
			evts: []broker.Event{
				events.RecurringChargeFailed{OrderID: "20", ParentOrderID: "12", SubscriberReference: "42", Amount: 1500, Reason: "inactive", MandateInactive: true, At: now},
			},
			orderID:   "20",
			wantStage: StageRecurringFailed,
			check: func(t *testing.T, v PaymentView) {
				require.Equal(t, int64(1500), v.Amount)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProjector()
			for _, evt := range tt.evts {
				require.NoError(t, p.Apply(context.Background(), evt))
			}
			v, ok := p.GetPayment(tt.orderID)
			require.True(t, ok)
			require.Equal(t, tt.wantStage, v.Stage)
			tt.check(t, v)
		})
	}
}

func TestProjector_Subscribers(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	p := NewProjector()
	ctx := context.Background()

	require.NoError(t, p.Apply(ctx, events.MandateStored{SubscriberReference: "42", Rum: "R2", At: now}))
	// An eviction of an older mandate does not touch the newer one.
	require.NoError(t, p.Apply(ctx, events.MandateInvalidated{SubscriberReference: "42", Rum: "R1", State: "revoked", At: now}))
	v, ok := p.GetSubscriber("42")
	require.True(t, ok)
	require.True(t, v.Active)

	require.NoError(t, p.Apply(ctx, events.MandateInvalidated{SubscriberReference: "42", Rum: "R2", State: "revoked", At: now}))
	v, _ = p.GetSubscriber("42")
	require.False(t, v.Active)
	require.Equal(t, "revoked", v.State)

	_, ok = p.GetPayment("missing")
	require.False(t, ok)
}

func TestProjector_ReplayAuditTrail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	svc, err := audit.NewServiceWithFile(observability.NewLoggerTo(&bytes.Buffer{}), path)
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, evt := range []broker.Event{
		events.SignatureStarted{OrderID: "12", SubscriberReference: "42", At: now},
		events.CartCleared{OrderID: "12", CustomerID: "42", At: now},
		events.MandateStored{SubscriberReference: "42", Rum: "R1", OrderID: "12", At: now.Add(time.Second)},
	} {
		require.NoError(t, svc.Record(ctx, evt))
	}
	require.NoError(t, svc.Close())

	raw, err := readFile(path)
	require.NoError(t, err)

	p := NewProjector()
	require.NoError(t, p.Replay(ctx, strings.NewReader(raw)))
	v, ok := p.GetPayment("12")
	require.True(t, ok)
	require.Equal(t, StageMandateSigned, v.Stage)
	require.Equal(t, "R1", v.Rum)
}

func TestProjector_ReplayRejectsCorruptLine(t *testing.T) {
	t.Parallel()
	bad, err := json.Marshal(audit.Entry{Event: (events.OrderPaid{}).Name(), Payload: json.RawMessage(`{"amount":"x"}`)})
	require.NoError(t, err)

	var tests = []struct {
		name  string
		input string
	}{
		{name: "not json", input: "{oops\n"},
		{name: "payload mismatch", input: string(bad) + "\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewProjector().Replay(context.Background(), strings.NewReader(tt.input))
			require.ErrorIs(t, err, db.ErrInternal)
		})
	}
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
