package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altibbe/transparency/internal/models"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	var got []any
	bus.Subscribe(func(e any) { got = append(got, e) })
	bus.Subscribe(func(e any) { got = append(got, e) })

	bus.Publish(ReportCreated{Report: &models.Report{ID: "r1"}})
	require.Len(t, got, 2)
	for _, e := range got {
		ev, ok := e.(ReportCreated)
		require.True(t, ok)
		require.Equal(t, "r1", ev.Report.ID)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	count := 0
	cancel := bus.Subscribe(func(any) { count++ })
	bus.Publish(SessionChanged{})
	cancel()
	bus.Publish(SessionChanged{})
	require.Equal(t, 1, count)
}

func TestPublishWithoutSubscribersIsFine(t *testing.T) {
	NewBus().Publish(ReportCreated{})
}
