// Package clock abstrae la hora actual para poder fijarla en tests.
package clock

import "time"

// Clock fuente de la hora actual.
type Clock interface {
	Now() time.Time
}

// System usa time.Now en UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// FakeClock hora fija que sólo avanza a pedido.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
