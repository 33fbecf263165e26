// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events carries "items changed" notifications from the sync engine
// to the credential projector.
package events

import (
	"context"
	"sync"

	"github.com/MKhiriev/vaultsync/models"
)

// ItemsChanged describes a change of the login items held locally.
// Subscribers apply Removed before Inserted, so an edited login appears in
// both: its old credentials are dropped and the new ones projected.
type ItemsChanged struct {
	Inserted []models.AutoFillCredential
	Removed  []models.ItemKey
}

// IsEmpty reports whether the notification carries nothing.
func (e ItemsChanged) IsEmpty() bool {
	return len(e.Inserted) == 0 && len(e.Removed) == 0
}

// Publisher sends notifications to every current subscriber.
type Publisher interface {
	Publish(ctx context.Context, event ItemsChanged) error
}

// Subscriber hands out subscriptions.
type Subscriber interface {
	Subscribe() *Subscription
}

// Subscription is one consumer's view of the bus.
type Subscription struct {
	ch   chan ItemsChanged
	done chan struct{}
	once sync.Once
	bus  *Bus
	id   uint64
}

// C returns the channel notifications are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan ItemsChanged {
	return s.ch
}

// Close detaches the subscription. Publishers blocked on it are released.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.bus.remove(s.id)
	})
}

// Bus is an in-process fan-out of [ItemsChanged]. Delivery to a subscriber
// preserves publish order; Publish blocks until every subscriber has taken
// the event, closed its subscription or ctx is done.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
}

// NewBus creates a bus whose subscriptions buffer up to buffer events.
func NewBus(buffer int) *Bus {
	if buffer < 0 {
		buffer = 0
	}
	return &Bus{subs: make(map[uint64]*Subscription), buffer: buffer}
}

func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		ch:   make(chan ItemsChanged, b.buffer),
		done: make(chan struct{}),
		bus:  b,
		id:   b.nextID,
	}
	b.subs[sub.id] = sub
	return sub
}

func (b *Bus) Publish(ctx context.Context, event ItemsChanged) error {
	if event.IsEmpty() {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}
