package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/scheduling/domain"
	"pedidos-service/internal/features/scheduling/ports"
)

// SlotService allocates daily delivery slots. It is the only writer of the
// capacity counters; the mutex makes the load-assign-persist sequence atomic
// so concurrent orders cannot race past a tier cap.
type SlotService struct {
	store ports.CapacityStore
	loc   *time.Location

	// now is swappable for tests.
	now func() time.Time

	mu sync.Mutex
}

// NewSlotService creates a SlotService operating in the given store timezone.
func NewSlotService(store ports.CapacityStore, loc *time.Location) *SlotService {
	return &SlotService{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// PreviewSlot computes the slot an order would receive right now without
// consuming capacity. Public delivery-date estimates use this; the counters
// are only committed when a real order reserves the slot.
func (s *SlotService) PreviewSlot(ctx context.Context, qty int) (domain.Slot, error) {
	return s.allocate(ctx, qty, false)
}

// ReserveSlot assigns the quantity to today's capacity and persists the
// increment.
func (s *SlotService) ReserveSlot(ctx context.Context, qty int) (domain.Slot, error) {
	return s.allocate(ctx, qty, true)
}

func (s *SlotService) allocate(ctx context.Context, qty int, commit bool) (domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	day := today.Format(domain.DateLayout)

	state, err := s.store.Get(ctx, day)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("service: failed to load capacity: %w", err)
	}

	tier, err := state.Assign(qty)
	if err != nil {
		return domain.Slot{}, err
	}

	if commit {
		if err := s.store.Put(ctx, day, state, s.endOfDay(today)); err != nil {
			return domain.Slot{}, fmt.Errorf("service: failed to persist capacity: %w", err)
		}
		logger.Get().Info("Capacity slot reserved",
			zap.String("day", day),
			zap.String("tier", tier.Label),
			zap.Int("quantity", qty),
		)
	}

	return domain.Slot{
		TierLabel:    tier.Label,
		LeadDays:     tier.LeadDays,
		DeliveryDate: domain.AddBusinessDays(today, tier.LeadDays),
		Usage:        *state,
	}, nil
}

// today returns the current calendar date in the store timezone, at midnight.
func (s *SlotService) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// endOfDay is the moment today's counters expire: the next local midnight.
func (s *SlotService) endOfDay(today time.Time) time.Time {
	return today.AddDate(0, 0, 1)
}
