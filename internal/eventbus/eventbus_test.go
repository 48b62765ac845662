package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishDeliversSynchronously(t *testing.T) {
	bus := New()

	delivered := 0
	bus.Subscribe(EventSelectionChanged, func(e DomainEvent) {
		delivered++
	})

	bus.Publish(SelectionChangedEvent{})

	// Synchronous dispatch: the handler has run by the time Publish returns
	require.Equal(t, 1, delivered)
}

func TestSubscribeIsTypeScoped(t *testing.T) {
	bus := New()

	var got []EventType
	bus.Subscribe(EventWarning, func(e DomainEvent) {
		got = append(got, e.Type())
	})

	bus.Publish(SelectionChangedEvent{})
	bus.Publish(WarningEvent{Message: "careful"})

	require.Equal(t, []EventType{EventWarning}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	delivered := 0
	unsubscribe := bus.Subscribe(EventWarning, func(DomainEvent) {
		delivered++
	})

	bus.Publish(WarningEvent{Message: "one"})
	unsubscribe()
	bus.Publish(WarningEvent{Message: "two"})

	require.Equal(t, 1, delivered)
}

func TestPublishRecoversFromPanickingHandler(t *testing.T) {
	bus := New()

	bus.Subscribe(EventWarning, func(DomainEvent) {
		panic("bad handler")
	})
	delivered := 0
	bus.Subscribe(EventWarning, func(DomainEvent) {
		delivered++
	})

	require.NotPanics(t, func() {
		bus.Publish(WarningEvent{Message: "still delivered"})
	})
	require.Equal(t, 1, delivered)
}
