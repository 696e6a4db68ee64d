// Package events re-exports the platform event bus so internal modules can
// import one events package for both infrastructure and domain events.
package events

import (
	platformevents "storefront_backend/platform/events"
	"storefront_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
