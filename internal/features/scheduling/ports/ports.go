package ports

import (
	"context"
	"time"

	"pedidos-service/internal/features/scheduling/domain"
)

// SlotAllocator defines the primary port for delivery-slot operations.
type SlotAllocator interface {
	// PreviewSlot computes the slot an order of qty units would get today
	// without consuming any capacity (dry-run).
	PreviewSlot(ctx context.Context, qty int) (domain.Slot, error)
	// ReserveSlot assigns qty units to today's capacity and persists the
	// consumed usage.
	ReserveSlot(ctx context.Context, qty int) (domain.Slot, error)
}

// CapacityStore defines the secondary port for the date-keyed capacity
// counters. Implementations must return a zeroed state for days that have
// not been written yet.
type CapacityStore interface {
	// Get loads the capacity state for the given calendar day (YYYY-MM-DD).
	Get(ctx context.Context, day string) (*domain.CapacityState, error)
	// Put stores the capacity state for the given day. The record expires at
	// endOfDay so every day starts with fresh counters.
	Put(ctx context.Context, day string, state *domain.CapacityState, endOfDay time.Time) error
}
