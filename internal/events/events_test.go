// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/models"
)

func changed(itemID string) ItemsChanged {
	return ItemsChanged{Inserted: []models.AutoFillCredential{{ShareID: "s", ItemID: itemID, URL: "https://x"}}}
}

func TestBus_FanOutInOrder(t *testing.T) {
	bus := NewBus(4)
	a, b := bus.Subscribe(), bus.Subscribe()
	defer a.Close()
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, changed("1")))
	require.NoError(t, bus.Publish(ctx, changed("2")))

	for _, sub := range []*Subscription{a, b} {
		assert.Equal(t, "1", (<-sub.C()).Inserted[0].ItemID)
		assert.Equal(t, "2", (<-sub.C()).Inserted[0].ItemID)
	}
}

func TestBus_EmptyEventIsDropped(t *testing.T) {
	bus := NewBus(1)
	sub := bus.Subscribe()
	defer sub.Close()

	require.NoError(t, bus.Publish(context.Background(), ItemsChanged{}))
	assert.Len(t, sub.C(), 0)
}

func TestBus_PublishHonoursContext(t *testing.T) {
	bus := NewBus(0)
	sub := bus.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := bus.Publish(ctx, changed("1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBus_CloseReleasesBlockedPublisher(t *testing.T) {
	bus := NewBus(0)
	sub := bus.Subscribe()

	done := make(chan error, 1)
	go func() { done <- bus.Publish(context.Background(), changed("1")) }()

	time.Sleep(10 * time.Millisecond)
	sub.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish still blocked after Close")
	}

	_, open := <-sub.C()
	assert.False(t, open)
	assert.NotPanics(t, sub.Close)
}

func TestBus_NoSubscribers(t *testing.T) {
	require.NoError(t, NewBus(0).Publish(context.Background(), changed("1")))
}
