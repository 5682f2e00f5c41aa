// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance is called.
// It is safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time

	// timers is ordered by deadline; timers with equal deadlines keep
	// registration order.
	timers []fakeTimer

	// registered is signaled whenever a timer is added.
	registered *sync.Cond
}

type fakeTimer struct {
	deadline time.Time
	// fire has capacity 1 and receives exactly once.
	fire chan time.Time
}

// Fake returns a FakeClock reading start.
func Fake(start time.Time) *FakeClock {
	c := &FakeClock{now: start}
	c.registered = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers a timer d from now. For d <= 0 the channel is ready
// immediately and nothing is registered.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	fire := make(chan time.Time, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if d <= 0 {
		fire <- c.now
		return fire
	}

	deadline := c.now.Add(d)
	position := len(c.timers)
	for position > 0 && c.timers[position-1].deadline.After(deadline) {
		position--
	}
	c.timers = slices.Insert(c.timers, position, fakeTimer{deadline: deadline, fire: fire})
	c.registered.Broadcast()
	return fire
}

// Advance moves time forward by d and fires every timer whose deadline
// has been reached, earliest first. It returns how many fired.
func (c *FakeClock) Advance(d time.Duration) int {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	expired := 0
	for expired < len(c.timers) && !c.timers[expired].deadline.After(now) {
		expired++
	}
	due := slices.Clone(c.timers[:expired])
	c.timers = slices.Delete(c.timers, 0, expired)
	c.mu.Unlock()

	for _, timer := range due {
		timer.fire <- now
	}
	return len(due)
}

// WaitForTimers blocks until at least n timers are pending. Tests call
// it before Advance so the goroutine under test has registered its wait.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.registered.Wait()
	}
}

// PendingCount returns the number of timers that have not fired.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
