package reservation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_InsertAndLookup(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Insert(3, 30))
	require.NoError(t, idx.Insert(1, 10))
	require.NoError(t, idx.Insert(2, 20))

	assert.Equal(t, 3, idx.Len())

	user, ok := idx.UserAt(2)
	require.True(t, ok)
	assert.Equal(t, 20, user)

	seat, ok := idx.SeatOf(30)
	require.True(t, ok)
	assert.Equal(t, 3, seat)
}

func TestIndex_Insert_DuplicateSeat(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Insert(1, 10))

	err := idx.Insert(1, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSeat)
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_Remove_ReturnsHolder(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Insert(5, 50))

	user, err := idx.Remove(5)
	require.NoError(t, err)
	assert.Equal(t, 50, user)
	assert.Equal(t, 0, idx.Len())

	_, ok := idx.SeatOf(50)
	assert.False(t, ok)
}

func TestIndex_Remove_NotFound(t *testing.T) {
	idx := NewIndex()
	_, err := idx.Remove(7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestIndex_LowestFree_EmptyIndex(t *testing.T) {
	idx := NewIndex()
	seat, ok := idx.LowestFree(5)
	require.True(t, ok)
	assert.Equal(t, 1, seat)
}

func TestIndex_LowestFree_FindsGap(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Insert(1, 10))
	require.NoError(t, idx.Insert(2, 20))
	require.NoError(t, idx.Insert(4, 40))

	seat, ok := idx.LowestFree(5)
	require.True(t, ok)
	assert.Equal(t, 3, seat)
}

func TestIndex_LowestFree_FullHouse(t *testing.T) {
	idx := NewIndex()
	for seat := 1; seat <= 5; seat++ {
		require.NoError(t, idx.Insert(seat, seat*10))
	}

	_, ok := idx.LowestFree(5)
	assert.False(t, ok)
}

func TestIndex_LowestFree_ReopensAfterRemove(t *testing.T) {
	idx := NewIndex()
	for seat := 1; seat <= 5; seat++ {
		require.NoError(t, idx.Insert(seat, seat*10))
	}

	_, err := idx.Remove(3)
	require.NoError(t, err)

	seat, ok := idx.LowestFree(5)
	require.True(t, ok)
	assert.Equal(t, 3, seat)
}

func TestIndex_Reservations_AscendingSeatOrder(t *testing.T) {
	idx := NewIndex()
	seats := []int{9, 2, 7, 1, 5, 8, 3, 10, 4, 6}
	for _, seat := range seats {
		require.NoError(t, idx.Insert(seat, seat*100))
	}

	all := idx.Reservations()
	require.Len(t, all, len(seats))
	for i, res := range all {
		assert.Equal(t, i+1, res.Seat)
		assert.Equal(t, (i+1)*100, res.UserID)
	}
}

func TestIndex_Ascend_EarlyStop(t *testing.T) {
	idx := NewIndex()
	for seat := 1; seat <= 10; seat++ {
		require.NoError(t, idx.Insert(seat, seat))
	}

	var visited []int
	idx.Ascend(func(seat, _ int) bool {
		visited = append(visited, seat)
		return seat < 3
	})
	assert.Equal(t, []int{1, 2, 3}, visited)
}

func TestIndex_RemoveUserRange(t *testing.T) {
	idx := NewIndex()
	// seat i held by user i
	for seat := 1; seat <= 5; seat++ {
		require.NoError(t, idx.Insert(seat, seat))
	}

	freed := idx.RemoveUserRange(2, 4)
	assert.Equal(t, []int{2, 3, 4}, freed)
	assert.Equal(t, 2, idx.Len())

	_, ok := idx.UserAt(3)
	assert.False(t, ok)
	_, ok = idx.UserAt(1)
	assert.True(t, ok)
}

func TestIndex_RemoveUserRange_NoMatches(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Insert(1, 10))

	freed := idx.RemoveUserRange(20, 30)
	assert.Empty(t, freed)
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_RandomizedChurn_KeepsOrder(t *testing.T) {
	idx := NewIndex()
	rng := rand.New(rand.NewSource(42))
	inserted := make(map[int]bool)

	for i := 0; i < 2000; i++ {
		seat := rng.Intn(500) + 1
		if inserted[seat] {
			_, err := idx.Remove(seat)
			require.NoError(t, err)
			delete(inserted, seat)
		} else {
			require.NoError(t, idx.Insert(seat, seat))
			inserted[seat] = true
		}
	}

	assert.Equal(t, len(inserted), idx.Len())

	prev := 0
	idx.Ascend(func(seat, _ int) bool {
		assert.Greater(t, seat, prev)
		assert.True(t, inserted[seat])
		prev = seat
		return true
	})
}
