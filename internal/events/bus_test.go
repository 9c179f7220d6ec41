package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/events"
)

func TestBusDispatchesInOrderToAllListeners(t *testing.T) {
	bus := events.NewBus(nil)
	var first, second []events.Kind

	bus.Subscribe(func(e events.Event) { first = append(first, e.Kind) })
	bus.Subscribe(func(e events.Event) { second = append(second, e.Kind) })
	bus.Start()

	bus.Publish(context.Background(), events.Event{Kind: events.KindBuildStarted})
	bus.Publish(context.Background(), events.Event{Kind: events.KindBuildFinished})

	want := []events.Kind{events.KindBuildStarted, events.KindBuildFinished}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestBusRecoversFromListenerPanic(t *testing.T) {
	bus := events.NewBus(nil)
	called := false

	bus.Subscribe(func(e events.Event) { panic("boom") })
	bus.Subscribe(func(e events.Event) { called = true })
	bus.Start()

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), events.Event{Kind: events.KindBuildStarted})
	})
	assert.True(t, called)
}

func TestBusSubscribeAfterStartPanics(t *testing.T) {
	bus := events.NewBus(nil)
	bus.Start()
	assert.Panics(t, func() {
		bus.Subscribe(func(events.Event) {})
	})
}
