package waitlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func popAll(w *Waitlist) []int {
	var order []int
	for {
		userID, ok := w.Pop()
		if !ok {
			return order
		}
		order = append(order, userID)
	}
}

func TestWaitlist_Pop_Empty(t *testing.T) {
	w := New()
	_, ok := w.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, w.Len())
}

func TestWaitlist_Pop_HighestPriorityFirst(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 2))
	require.NoError(t, w.Push(2, 5))
	require.NoError(t, w.Push(3, 1))

	assert.Equal(t, []int{2, 1, 3}, popAll(w))
}

func TestWaitlist_Pop_TiesServedFIFO(t *testing.T) {
	// priorities [3,1,3,2] in arrival order: first 3, second 3, then 2, then 1
	w := New()
	require.NoError(t, w.Push(10, 3))
	require.NoError(t, w.Push(11, 1))
	require.NoError(t, w.Push(12, 3))
	require.NoError(t, w.Push(13, 2))

	assert.Equal(t, []int{10, 12, 13, 11}, popAll(w))
}

func TestWaitlist_Push_Duplicate(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 3))

	err := w.Push(1, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyWaiting)
	assert.Equal(t, 1, w.Len())
}

func TestWaitlist_Contains(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 3))

	assert.True(t, w.Contains(1))
	assert.False(t, w.Contains(2))

	_, ok := w.Pop()
	require.True(t, ok)
	assert.False(t, w.Contains(1))
}

func TestWaitlist_Priority(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 7))

	p, ok := w.Priority(1)
	require.True(t, ok)
	assert.Equal(t, 7, p)

	_, ok = w.Priority(2)
	assert.False(t, ok)
}

func TestWaitlist_UpdatePriority_Repositions(t *testing.T) {
	// A and B both priority 1, A arrived first. Raising B must pop B first.
	w := New()
	require.NoError(t, w.Push(1, 1)) // A
	require.NoError(t, w.Push(2, 1)) // B

	require.NoError(t, w.UpdatePriority(2, 5))

	assert.Equal(t, []int{2, 1}, popAll(w))
}

func TestWaitlist_UpdatePriority_PreservesArrival(t *testing.T) {
	// Lowering then restoring a priority must not reset FIFO position.
	w := New()
	require.NoError(t, w.Push(1, 3))
	require.NoError(t, w.Push(2, 3))
	require.NoError(t, w.Push(3, 3))

	require.NoError(t, w.UpdatePriority(1, 1))
	require.NoError(t, w.UpdatePriority(1, 3))

	assert.Equal(t, []int{1, 2, 3}, popAll(w))
}

func TestWaitlist_UpdatePriority_NotWaiting(t *testing.T) {
	w := New()
	err := w.UpdatePriority(9, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotWaiting)
}

func TestWaitlist_Remove(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 3))
	require.NoError(t, w.Push(2, 2))
	require.NoError(t, w.Push(3, 1))

	assert.True(t, w.Remove(2))
	assert.False(t, w.Remove(2))
	assert.Equal(t, 2, w.Len())

	assert.Equal(t, []int{1, 3}, popAll(w))
}

func TestWaitlist_Remove_LastEntry(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 1))
	assert.True(t, w.Remove(1))
	assert.Equal(t, 0, w.Len())
	_, ok := w.Pop()
	assert.False(t, ok)
}

func TestWaitlist_RemoveRange(t *testing.T) {
	w := New()
	for userID := 1; userID <= 6; userID++ {
		require.NoError(t, w.Push(userID, userID))
	}

	removed := w.RemoveRange(2, 4)
	assert.Equal(t, []int{2, 3, 4}, removed)
	assert.Equal(t, 3, w.Len())

	assert.Equal(t, []int{6, 5, 1}, popAll(w))
}

func TestWaitlist_RemoveRange_NoMatches(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 1))

	removed := w.RemoveRange(10, 20)
	assert.Empty(t, removed)
	assert.Equal(t, 1, w.Len())
}

func TestWaitlist_MixedChurn_OrderingHolds(t *testing.T) {
	w := New()
	require.NoError(t, w.Push(1, 4))
	require.NoError(t, w.Push(2, 4))
	require.NoError(t, w.Push(3, 9))
	require.NoError(t, w.Push(4, 2))

	userID, ok := w.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, userID)

	require.NoError(t, w.Push(5, 9))
	require.NoError(t, w.UpdatePriority(4, 9))
	assert.True(t, w.Remove(1))

	// 4 and 5 share priority 9; 4 arrived before 5, then 2 at priority 4.
	assert.Equal(t, []int{4, 5, 2}, popAll(w))
}
