// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"storefront_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Catalog Domain Events
// =============================================================================

// ProductAction names the mutation that produced a ProductChanged event.
type ProductAction string

const (
	ProductCreated          ProductAction = "created"
	ProductUpdated          ProductAction = "updated"
	ProductDeleted          ProductAction = "deleted"
	ProductInventoryChanged ProductAction = "inventory_changed"
	ProductImagesChanged    ProductAction = "images_changed"
)

// ProductChanged is published after any successful admin mutation of a
// product. Subscribers use it to drop cached storefront pages.
type ProductChanged struct {
	BaseEvent
	ProductID uuid.UUID     `json:"productId"`
	Slug      string        `json:"slug"`
	Action    ProductAction `json:"action"`
}

func (e ProductChanged) EventName() string { return "catalog.product.changed" }
