package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-gateway/internal/events"
)

func TestDispatcher_PublishInvokesSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var received []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	event := events.Event{
		ID:        "evt-1",
		Type:      events.EventUserRegistered,
		UserID:    "u-1",
		Email:     "a@x.com",
		Timestamp: time.Now(),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "u-1", received[0].UserID)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	dispatcher.Subscribe(events.EventSigninFailed, func(context.Context, events.Event) error {
		return errors.New("handler failed")
	})
	var called bool
	dispatcher.Subscribe(events.EventSigninFailed, func(context.Context, events.Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventSigninFailed}))
	assert.True(t, called)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventSigninSucceeded}))
}
