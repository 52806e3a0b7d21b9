package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_Publish(t *testing.T) {
	t.Parallel()

	bus := New()
	var got []string
	boom := errors.New("boom")

	bus.Subscribe("mandate.stored", func(_ context.Context, evt Event) error {
		got = append(got, "first:"+evt.Name())
		return nil
	})
	bus.Subscribe("mandate.stored", func(context.Context, Event) error {
		return boom
	})
	bus.Subscribe("mandate.stored", func(context.Context, Event) error {
		panic("bad handler")
	})
	bus.Subscribe("mandate.stored", func(_ context.Context, evt Event) error {
		got = append(got, "last:"+evt.Name())
		return nil
	})

	errs := bus.Publish(context.Background(), testEvent{name: "mandate.stored"})
	require.Len(t, errs, 2)
	require.ErrorIs(t, errs[0], boom)
	require.Equal(t, []string{"first:mandate.stored", "last:mandate.stored"}, got)

	require.Empty(t, bus.Publish(context.Background(), testEvent{name: "order.paid"}))
}

func TestBus_Close(t *testing.T) {
	t.Parallel()

	bus := New()
	bus.Subscribe("order.paid", func(context.Context, Event) error { return nil })
	bus.Close()

	errs := bus.Publish(context.Background(), testEvent{name: "order.paid"})
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrClosed)
}
