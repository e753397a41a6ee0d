package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"ticket-booth/internal/reservation"
	"ticket-booth/internal/waitlist"
	"ticket-booth/pkg/types"
)

// Engine owns the reservation index and the priority waitlist and implements
// every public seat allocation operation over the pair. It is single-threaded:
// callers embedding it in a concurrent setting must serialize access, because
// every operation reads and writes both structures together.
type Engine struct {
	capacity int
	index    *reservation.Index
	wait     *waitlist.Waitlist
}

// New creates an engine with zero capacity. Initialize must be called before
// seats can be reserved.
func New() *Engine {
	return &Engine{
		index: reservation.NewIndex(),
		wait:  waitlist.New(),
	}
}

// ReserveResult is the outcome of a Reserve call: either a seat assignment or
// a waitlist admission.
type ReserveResult struct {
	Seat       int
	Waitlisted bool
}

// CancelResult is the outcome of a Cancel call. Reassigned is non-nil when
// the freed seat went straight to the next waitlisted user.
type CancelResult struct {
	Reassigned *types.Assignment
}

// UpdateResult is the outcome of an UpdatePriority call. Unchanged is set
// when the new priority equals the user's current one.
type UpdateResult struct {
	Priority  int
	Unchanged bool
}

// AddSeatsResult is the outcome of an AddSeats call.
type AddSeatsResult struct {
	Added       int
	Assignments []types.Assignment
}

// ReleaseResult is the outcome of a ReleaseSeats call.
type ReleaseResult struct {
	FreedSeats     []int
	RemovedWaiting []int
	Assignments    []types.Assignment
}

// Initialize sets the seat capacity and clears both structures.
func (e *Engine) Initialize(seatCount int) error {
	if seatCount <= 0 {
		return fmt.Errorf("seat count must be positive, got %d: %w", seatCount, ErrInvalidArgument)
	}
	e.capacity = seatCount
	e.index = reservation.NewIndex()
	e.wait = waitlist.New()
	log.WithField("capacity", seatCount).Debug("Engine initialized")
	return nil
}

// Capacity returns the total number of seats ever made available.
func (e *Engine) Capacity() int { return e.capacity }

// Available returns the number of free seats and the waitlist length.
func (e *Engine) Available() (free, waiting int) {
	return e.capacity - e.index.Len(), e.wait.Len()
}

// Reservations returns all current reservations in ascending seat order.
func (e *Engine) Reservations() []types.Reservation {
	return e.index.Reservations()
}

// Reserve assigns the lowest free seat to the user, or adds the user to the
// waitlist when the house is full.
func (e *Engine) Reserve(userID, priority int) (*ReserveResult, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user ID must be positive, got %d: %w", userID, ErrInvalidArgument)
	}
	if priority <= 0 {
		return nil, fmt.Errorf("priority must be positive, got %d: %w", priority, ErrInvalidArgument)
	}
	if seat, ok := e.index.SeatOf(userID); ok {
		return nil, fmt.Errorf("user %d already holds seat %d: %w", userID, seat, ErrAlreadyExists)
	}
	if e.wait.Contains(userID) {
		return nil, fmt.Errorf("user %d: %w: %w", userID, ErrAlreadyExists, waitlist.ErrAlreadyWaiting)
	}

	seat, ok := e.index.LowestFree(e.capacity)
	if !ok {
		if err := e.wait.Push(userID, priority); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"user": userID, "priority": priority}).Debug("User waitlisted")
		return &ReserveResult{Waitlisted: true}, nil
	}

	if err := e.index.Insert(seat, userID); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user": userID, "seat": seat}).Debug("Seat reserved")
	return &ReserveResult{Seat: seat}, nil
}

// Cancel removes the reservation of seat by userID. The mapping must match
// exactly: a wrong seat or wrong owner is an error, not a no-op. If anyone is
// waiting, the freed seat goes to the next eligible user immediately.
func (e *Engine) Cancel(seat, userID int) (*CancelResult, error) {
	holder, ok := e.index.UserAt(seat)
	if !ok || holder != userID {
		return nil, fmt.Errorf("user %d has no reservation for seat %d: %w", userID, seat, ErrNotFound)
	}
	if _, err := e.index.Remove(seat); err != nil {
		return nil, err
	}

	res := &CancelResult{}
	if next, ok := e.wait.Pop(); ok {
		if err := e.index.Insert(seat, next); err != nil {
			return nil, err
		}
		res.Reassigned = &types.Assignment{Seat: seat, UserID: next}
		log.WithFields(log.Fields{"seat": seat, "from": userID, "to": next}).Debug("Seat reassigned after cancel")
	}
	return res, nil
}

// UpdatePriority changes a waiting user's priority, preserving their arrival
// order. A seated user has no priority to update.
func (e *Engine) UpdatePriority(userID, newPriority int) (*UpdateResult, error) {
	if newPriority <= 0 {
		return nil, fmt.Errorf("priority must be positive, got %d: %w", newPriority, ErrInvalidArgument)
	}
	current, ok := e.wait.Priority(userID)
	if !ok {
		return nil, fmt.Errorf("user %d: %w: %w", userID, ErrNotFound, waitlist.ErrNotWaiting)
	}
	if current == newPriority {
		return &UpdateResult{Priority: newPriority, Unchanged: true}, nil
	}
	if err := e.wait.UpdatePriority(userID, newPriority); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user": userID, "priority": newPriority}).Debug("Priority updated")
	return &UpdateResult{Priority: newPriority}, nil
}

// AddSeats grows the capacity and drains the waitlist into the newly free
// seats, highest priority first.
func (e *Engine) AddSeats(extra int) (*AddSeatsResult, error) {
	if extra <= 0 {
		return nil, fmt.Errorf("seat count must be positive, got %d: %w", extra, ErrInvalidArgument)
	}
	e.capacity += extra
	res := &AddSeatsResult{Added: extra}
	res.Assignments = e.drainWaitlist()
	log.WithFields(log.Fields{
		"added":      extra,
		"capacity":   e.capacity,
		"reassigned": len(res.Assignments),
	}).Debug("Capacity extended")
	return res, nil
}

// ReleaseSeats removes every reservation and waitlist entry whose user ID
// falls in [lo, hi], then offers the vacated seats, in ascending order, to
// the remaining waitlisted users.
func (e *Engine) ReleaseSeats(lo, hi int) (*ReleaseResult, error) {
	if lo > hi {
		return nil, fmt.Errorf("invalid user ID range [%d, %d]: %w", lo, hi, ErrInvalidArgument)
	}
	res := &ReleaseResult{
		FreedSeats:     e.index.RemoveUserRange(lo, hi),
		RemovedWaiting: e.wait.RemoveRange(lo, hi),
	}
	for _, seat := range res.FreedSeats {
		next, ok := e.wait.Pop()
		if !ok {
			break
		}
		if err := e.index.Insert(seat, next); err != nil {
			return nil, err
		}
		res.Assignments = append(res.Assignments, types.Assignment{Seat: seat, UserID: next})
	}
	log.WithFields(log.Fields{
		"range_lo":   lo,
		"range_hi":   hi,
		"freed":      len(res.FreedSeats),
		"reassigned": len(res.Assignments),
	}).Debug("User range released")
	return res, nil
}

// ExitWaitlist removes a specific user from the waitlist. Returns whether
// the user was waiting.
func (e *Engine) ExitWaitlist(userID int) bool {
	removed := e.wait.Remove(userID)
	if removed {
		log.WithField("user", userID).Debug("User left waitlist")
	}
	return removed
}

// drainWaitlist hands free seats to waitlisted users, lowest seat number and
// highest priority first, until either runs out.
func (e *Engine) drainWaitlist() []types.Assignment {
	var assignments []types.Assignment
	for e.wait.Len() > 0 {
		seat, ok := e.index.LowestFree(e.capacity)
		if !ok {
			break
		}
		next, _ := e.wait.Pop()
		if err := e.index.Insert(seat, next); err != nil {
			// LowestFree just reported the seat as free.
			panic(fmt.Sprintf("engine state out of sync: %v", err))
		}
		assignments = append(assignments, types.Assignment{Seat: seat, UserID: next})
	}
	return assignments
}
