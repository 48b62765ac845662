package ui

import (
	"snappick/internal/eventbus"
)

// EventMsg wraps a domain event for the Bubble Tea update loop
type EventMsg struct {
	Event eventbus.DomainEvent
}
