package service

import (
	"time"

	"github.com/noah-isme/matriculacion/internal/repository"
)

// registryStore is the transactional view over the entity repositories.
type registryStore interface {
	View(fn func(tx *repository.Tx) error) error
	Update(fn func(tx *repository.Tx) error) error
}

// Clock returns the current instant.
type Clock func() time.Time

// calendar turns the clock into civil "now" values in the registry zone.
type calendar struct {
	clock Clock
	loc   *time.Location
}

func newCalendar(clock Clock, loc *time.Location) calendar {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return calendar{clock: clock, loc: loc}
}

func (c calendar) now() time.Time {
	return c.clock().In(c.loc)
}
