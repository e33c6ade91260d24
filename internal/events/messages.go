package events

import (
	"context"
	"time"
)

// Event types.
const (
	CatalogReloaded = "catalog:reloaded"
	ReloadFailed    = "catalog:reload_failed"
)

// CatalogReloadedEvent is the payload for catalog:reloaded.
type CatalogReloadedEvent struct {
	Cards         int           `json:"cards"`
	EncounterSets int           `json:"encounter_sets"`
	Campaigns     int           `json:"campaigns"`
	SearchEntries int           `json:"search_entries"`
	Took          time.Duration `json:"took"`
}

// ReloadFailedEvent is the payload for catalog:reload_failed.
type ReloadFailedEvent struct {
	Err error `json:"-"`
}

// NewReloaded builds a catalog:reloaded event.
func NewReloaded(ctx context.Context, p CatalogReloadedEvent) Event {
	return Event{Type: CatalogReloaded, Payload: p, Context: ctx}
}

// NewReloadFailed builds a catalog:reload_failed event.
func NewReloadFailed(ctx context.Context, err error) Event {
	return Event{Type: ReloadFailed, Payload: ReloadFailedEvent{Err: err}, Context: ctx}
}
