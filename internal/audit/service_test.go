package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sepagateway/internal/events"
	"sepagateway/kit/observability"
)

func TestService_Close(t *testing.T) {
	var tests = []struct {
		name string
		svc  func(t *testing.T) *Service
	}{
		{
			name: "close without file",
			svc: func(t *testing.T) *Service {
				return NewService(observability.NewLoggerTo(io.Discard))
			},
		},
		{
			name: "close with file",
			svc: func(t *testing.T) *Service {
				svc, err := NewServiceWithFile(observability.NewLoggerTo(io.Discard), filepath.Join(t.TempDir(), "audit.jsonl"))
				require.NoError(t, err)
				return svc
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.svc(t)
			require.NoError(t, svc.Close())
			require.NoError(t, svc.Close())
		})
	}
}

func TestService_Record(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "audit.jsonl")
	svc, err := NewServiceWithFile(observability.NewLoggerTo(io.Discard), path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, events.MandateStored{SubscriberReference: "guest_7", Rum: "R1", OrderID: "7"}))
	require.NoError(t, svc.Record(ctx, events.OrderPaid{OrderID: "7", TransactionID: "dd-1", Amount: 5000}))
	require.NoError(t, svc.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	require.Equal(t, "mandate.stored", entries[0].Event)
	require.Equal(t, "guest_7", entries[0].PartitionKey)
	require.JSONEq(t, `{"subscriber_reference":"guest_7","rum":"R1","order_id":"7","at":"0001-01-01T00:00:00Z"}`, string(entries[0].Payload))
	require.Equal(t, "order.paid", entries[1].Event)
	require.Equal(t, "7", entries[1].PartitionKey)
}

func TestService_RecordWithoutFileOrLogger(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)
	require.NotPanics(t, func() {
		require.NoError(t, svc.Record(context.Background(), events.CartCleared{OrderID: "1"}))
	})
}
