package ui

import (
	"stationhub/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// statusMsg replaces the status line
type statusMsg string

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}
