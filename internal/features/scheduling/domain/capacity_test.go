package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCapacityState_Assign_SmallTierFirst verifies tier priority: a quantity
// that fits both the 6 and 15 tiers must land in the 6 tier.
func TestCapacityState_Assign_SmallTierFirst(t *testing.T) {
	state := &CapacityState{Cupo6: 4}

	tier, err := state.Assign(2)
	require.NoError(t, err)

	assert.Equal(t, "cupo_6", tier.Label)
	assert.Equal(t, 3, tier.LeadDays)
	assert.Equal(t, 6, state.Cupo6)
	assert.Equal(t, 0, state.Cupo15)
}

// TestCapacityState_Assign_OverflowsToNextTier verifies that a quantity that
// no longer fits the small tier falls through to the next one.
func TestCapacityState_Assign_OverflowsToNextTier(t *testing.T) {
	state := &CapacityState{Cupo6: 4}

	tier, err := state.Assign(6)
	require.NoError(t, err)

	assert.Equal(t, "cupo_15", tier.Label)
	assert.Equal(t, 6, tier.LeadDays)
	assert.Equal(t, 4, state.Cupo6, "small tier untouched")
	assert.Equal(t, 6, state.Cupo15)
}

// TestCapacityState_Assign_LargeQuantity verifies large orders go straight to
// the 30 tier with its 12-day lead time.
func TestCapacityState_Assign_LargeQuantity(t *testing.T) {
	state := &CapacityState{}

	tier, err := state.Assign(20)
	require.NoError(t, err)

	assert.Equal(t, "cupo_30", tier.Label)
	assert.Equal(t, 12, tier.LeadDays)
	assert.Equal(t, 20, state.Cupo30)
}

// TestCapacityState_Assign_Exhausted verifies that a fully booked day rejects
// any quantity and reports the usage snapshot.
func TestCapacityState_Assign_Exhausted(t *testing.T) {
	state := &CapacityState{Cupo6: 6, Cupo15: 15, Cupo30: 30}

	for _, qty := range []int{1, 6, 15, 30} {
		_, err := state.Assign(qty)
		require.ErrorIs(t, err, ErrCapacityExhausted, "qty %d", qty)

		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, *state, exhausted.Usage)
	}
}

// TestCapacityState_Assign_InvalidQuantity verifies the [1, 30] bounds.
func TestCapacityState_Assign_InvalidQuantity(t *testing.T) {
	state := &CapacityState{}

	for _, qty := range []int{0, -1, 31, 100} {
		_, err := state.Assign(qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "qty %d", qty)
	}

	assert.Equal(t, CapacityState{}, *state, "invalid input must not mutate state")
}

// TestCapacityState_Assign_FillsTierExactly verifies a tier can be filled to
// its cap but not past it.
func TestCapacityState_Assign_FillsTierExactly(t *testing.T) {
	state := &CapacityState{}

	tier, err := state.Assign(6)
	require.NoError(t, err)
	assert.Equal(t, "cupo_6", tier.Label)

	// 6 tier is now full; the next small order overflows to the 15 tier.
	tier, err = state.Assign(1)
	require.NoError(t, err)
	assert.Equal(t, "cupo_15", tier.Label)
}
