package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos-service/internal/features/scheduling/domain"
)

// memoryCapacityStore is an in-memory ports.CapacityStore for tests.
type memoryCapacityStore struct {
	mu     sync.Mutex
	states map[string]domain.CapacityState
	puts   int
}

func newMemoryCapacityStore() *memoryCapacityStore {
	return &memoryCapacityStore{states: map[string]domain.CapacityState{}}
}

func (m *memoryCapacityStore) Get(ctx context.Context, day string) (*domain.CapacityState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.states[day]
	return &state, nil
}

func (m *memoryCapacityStore) Put(ctx context.Context, day string, state *domain.CapacityState, endOfDay time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[day] = *state
	m.puts++
	return nil
}

func newTestService(store *memoryCapacityStore, nowStr string) *SlotService {
	svc := NewSlotService(store, time.UTC)
	now, err := time.Parse(domain.DateLayout, nowStr)
	if err != nil {
		panic(err)
	}
	svc.now = func() time.Time { return now }
	return svc
}

// TestSlotService_ReserveSlot verifies a reservation consumes capacity and
// yields the tier lead time.
func TestSlotService_ReserveSlot(t *testing.T) {
	store := newMemoryCapacityStore()
	// Monday 2024-06-10; no holidays that week.
	svc := newTestService(store, "2024-06-10")

	slot, err := svc.ReserveSlot(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "cupo_6", slot.TierLabel)
	assert.Equal(t, 3, slot.LeadDays)
	assert.Equal(t, "2024-06-13", slot.DeliveryDate.Format(domain.DateLayout))
	assert.Equal(t, domain.CapacityState{Cupo6: 5}, store.states["2024-06-10"])
}

// TestSlotService_PreviewSlot_DoesNotPersist verifies the preview endpoint is
// a dry run: it reports the slot but writes nothing back.
func TestSlotService_PreviewSlot_DoesNotPersist(t *testing.T) {
	store := newMemoryCapacityStore()
	svc := newTestService(store, "2024-06-10")

	slot, err := svc.PreviewSlot(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "cupo_6", slot.TierLabel)
	assert.Equal(t, domain.CapacityState{Cupo6: 5}, slot.Usage, "preview reports would-be usage")

	assert.Zero(t, store.puts, "preview must not write")
	assert.Equal(t, domain.CapacityState{}, store.states["2024-06-10"])

	// Two consecutive previews see the same free capacity.
	again, err := svc.PreviewSlot(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "cupo_6", again.TierLabel)
}

// TestSlotService_ReserveSlot_Exhausted verifies the exhaustion error carries
// the usage snapshot once every tier is at cap.
func TestSlotService_ReserveSlot_Exhausted(t *testing.T) {
	store := newMemoryCapacityStore()
	store.states["2024-06-10"] = domain.CapacityState{Cupo6: 6, Cupo15: 15, Cupo30: 30}
	svc := newTestService(store, "2024-06-10")

	_, err := svc.ReserveSlot(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrCapacityExhausted)

	var exhausted *domain.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, domain.CapacityState{Cupo6: 6, Cupo15: 15, Cupo30: 30}, exhausted.Usage)
}

// TestSlotService_ReserveSlot_InvalidQuantity verifies bounds are enforced
// before any storage access.
func TestSlotService_ReserveSlot_InvalidQuantity(t *testing.T) {
	store := newMemoryCapacityStore()
	svc := newTestService(store, "2024-06-10")

	_, err := svc.ReserveSlot(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.ReserveSlot(context.Background(), 31)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.Zero(t, store.puts)
}

// TestSlotService_DeliveryDateProperties verifies every valid quantity yields
// a future business day.
func TestSlotService_DeliveryDateProperties(t *testing.T) {
	for qty := 1; qty <= 30; qty++ {
		store := newMemoryCapacityStore()
		svc := newTestService(store, "2024-06-10")

		slot, err := svc.ReserveSlot(context.Background(), qty)
		require.NoError(t, err, "qty %d", qty)

		assert.True(t, slot.DeliveryDate.After(svc.now()), "qty %d: date in the future", qty)
		assert.NotEqual(t, time.Saturday, slot.DeliveryDate.Weekday())
		assert.NotEqual(t, time.Sunday, slot.DeliveryDate.Weekday())

		holidays := domain.HolidaysForYear(slot.DeliveryDate.Year())
		_, holiday := holidays[slot.DeliveryDate.Format(domain.DateLayout)]
		assert.False(t, holiday, "qty %d", qty)
	}
}

// TestSlotService_ConcurrentReservations verifies the check-then-increment
// sequence is serialized: concurrent orders never push a tier past its cap.
func TestSlotService_ConcurrentReservations(t *testing.T) {
	store := newMemoryCapacityStore()
	svc := newTestService(store, "2024-06-10")

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			// Errors are fine (capacity may run out); overcommit is not.
			svc.ReserveSlot(context.Background(), 3)
		}()
	}
	wg.Wait()

	final := store.states["2024-06-10"]
	assert.LessOrEqual(t, final.Cupo6, 6)
	assert.LessOrEqual(t, final.Cupo15, 15)
	assert.LessOrEqual(t, final.Cupo30, 30)
	assert.Equal(t, 6+15+30, final.Cupo6+final.Cupo15+final.Cupo30,
		"20 orders of 3 units fully book all tiers")
}
