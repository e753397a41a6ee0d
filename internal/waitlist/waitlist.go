package waitlist

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrAlreadyWaiting is returned when pushing a user who is already queued.
	ErrAlreadyWaiting = errors.New("user already in waitlist")
	// ErrNotWaiting is returned when updating a user who is not queued.
	ErrNotWaiting = errors.New("user not in waitlist")
)

type entry struct {
	userID   int
	priority int
	arrival  uint64 // FIFO tie-break within equal priority
}

// Waitlist is a binary heap of waiting users ordered by priority (higher
// first), ties broken by arrival order. A userID→index position map is kept
// in sync on every swap so that priority updates and removals by user ID stay
// O(log n) instead of requiring a full scan.
type Waitlist struct {
	entries  []*entry
	position map[int]int // userID → index in entries
	arrival  uint64
}

// New creates an empty waitlist.
func New() *Waitlist {
	return &Waitlist{position: make(map[int]int)}
}

// Len returns the number of waiting users.
func (w *Waitlist) Len() int { return len(w.entries) }

// Contains reports whether the user is currently waiting.
func (w *Waitlist) Contains(userID int) bool {
	_, ok := w.position[userID]
	return ok
}

// Priority returns the current priority of a waiting user.
func (w *Waitlist) Priority(userID int) (int, bool) {
	idx, ok := w.position[userID]
	if !ok {
		return 0, false
	}
	return w.entries[idx].priority, true
}

// Push adds a user with the given priority, assigning the next arrival
// sequence number.
func (w *Waitlist) Push(userID, priority int) error {
	if w.Contains(userID) {
		return fmt.Errorf("user %d: %w", userID, ErrAlreadyWaiting)
	}
	w.arrival++
	w.entries = append(w.entries, &entry{userID: userID, priority: priority, arrival: w.arrival})
	w.position[userID] = len(w.entries) - 1
	w.siftUp(len(w.entries) - 1)
	return nil
}

// Pop removes and returns the highest-priority user, earliest arrival first
// among equal priorities. ok is false when the waitlist is empty.
func (w *Waitlist) Pop() (userID int, ok bool) {
	if len(w.entries) == 0 {
		return 0, false
	}
	top := w.entries[0]
	last := len(w.entries) - 1
	w.swap(0, last)
	w.entries[last] = nil // avoid holding on to the popped entry
	w.entries = w.entries[:last]
	delete(w.position, top.userID)
	if len(w.entries) > 0 {
		w.siftDown(0)
	}
	return top.userID, true
}

// UpdatePriority changes a waiting user's priority while keeping their
// original arrival sequence, so an update does not reset their position
// among equal-priority peers.
func (w *Waitlist) UpdatePriority(userID, newPriority int) error {
	idx, ok := w.position[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotWaiting)
	}
	old := w.entries[idx].priority
	w.entries[idx].priority = newPriority
	if newPriority > old {
		w.siftUp(idx)
	} else if newPriority < old {
		w.siftDown(idx)
	}
	return nil
}

// Remove deletes a specific user from the waitlist. Returns whether the user
// was present.
func (w *Waitlist) Remove(userID int) bool {
	idx, ok := w.position[userID]
	if !ok {
		return false
	}
	last := len(w.entries) - 1
	w.swap(idx, last)
	w.entries[last] = nil
	w.entries = w.entries[:last]
	delete(w.position, userID)
	if idx < len(w.entries) {
		// The displaced entry may need to move either direction.
		w.siftUp(idx)
		w.siftDown(idx)
	}
	return true
}

// RemoveRange deletes every waiting user with ID in the inclusive range
// [lo, hi] and returns the removed user IDs in ascending order.
func (w *Waitlist) RemoveRange(lo, hi int) []int {
	var removed []int
	for userID := range w.position {
		if userID >= lo && userID <= hi {
			removed = append(removed, userID)
		}
	}
	sort.Ints(removed)
	for _, userID := range removed {
		w.Remove(userID)
	}
	return removed
}

// above reports whether entry i should sit above entry j in the heap:
// higher priority wins, then earlier arrival.
func (w *Waitlist) above(i, j int) bool {
	if w.entries[i].priority != w.entries[j].priority {
		return w.entries[i].priority > w.entries[j].priority
	}
	return w.entries[i].arrival < w.entries[j].arrival
}

func (w *Waitlist) swap(i, j int) {
	w.entries[i], w.entries[j] = w.entries[j], w.entries[i]
	w.position[w.entries[i].userID] = i
	w.position[w.entries[j].userID] = j
}

func (w *Waitlist) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !w.above(i, parent) {
			break
		}
		w.swap(i, parent)
		i = parent
	}
}

func (w *Waitlist) siftDown(i int) {
	n := len(w.entries)
	for {
		top := i
		if left := 2*i + 1; left < n && w.above(left, top) {
			top = left
		}
		if right := 2*i + 2; right < n && w.above(right, top) {
			top = right
		}
		if top == i {
			return
		}
		w.swap(i, top)
		i = top
	}
}
