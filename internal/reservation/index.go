package reservation

import (
	"errors"
	"fmt"
	"sort"

	"ticket-booth/pkg/types"
)

var (
	// ErrDuplicateSeat is returned when inserting a seat that is already reserved.
	ErrDuplicateSeat = errors.New("seat already reserved")
	// ErrSeatNotFound is returned when removing or resolving a seat with no reservation.
	ErrSeatNotFound = errors.New("seat not reserved")
)

type color uint8

const (
	red   color = 0
	black color = 1
)

type node struct {
	seat   int
	userID int
	color  color
	left   *node
	right  *node
	parent *node
}

// Index is the reservation index: a red-black tree keyed by seat number with
// the occupant's user ID as value, plus a user→seat map so occupancy checks
// and range removals by user ID do not need a tree walk.
//
// The tree keeps reservations in ascending seat order, which is what makes
// ordered listing and the lowest-free-seat scan cheap.
type Index struct {
	root     *node
	sentinel *node // black sentinel
	size     int
	byUser   map[int]int // userID → seat
}

// NewIndex creates an empty reservation index.
func NewIndex() *Index {
	sentinel := &node{color: black}
	return &Index{
		root:     sentinel,
		sentinel: sentinel,
		byUser:   make(map[int]int),
	}
}

// Len returns the number of reserved seats.
func (x *Index) Len() int { return x.size }

// UserAt returns the user holding the given seat.
func (x *Index) UserAt(seat int) (int, bool) {
	n := x.search(seat)
	if n == x.sentinel {
		return 0, false
	}
	return n.userID, true
}

// SeatOf returns the seat held by the given user.
func (x *Index) SeatOf(userID int) (int, bool) {
	seat, ok := x.byUser[userID]
	return seat, ok
}

// Insert records a reservation of seat by userID.
func (x *Index) Insert(seat, userID int) error {
	y := x.sentinel
	cur := x.root
	for cur != x.sentinel {
		y = cur
		switch {
		case seat < cur.seat:
			cur = cur.left
		case seat > cur.seat:
			cur = cur.right
		default:
			return fmt.Errorf("seat %d: %w", seat, ErrDuplicateSeat)
		}
	}

	z := &node{
		seat:   seat,
		userID: userID,
		color:  red,
		left:   x.sentinel,
		right:  x.sentinel,
		parent: y,
	}
	if y == x.sentinel {
		x.root = z
	} else if seat < y.seat {
		y.left = z
	} else {
		y.right = z
	}
	x.insertFixup(z)
	x.size++
	x.byUser[userID] = seat
	return nil
}

// Remove deletes the reservation for the given seat and returns the user
// that held it.
func (x *Index) Remove(seat int) (int, error) {
	z := x.search(seat)
	if z == x.sentinel {
		return 0, fmt.Errorf("seat %d: %w", seat, ErrSeatNotFound)
	}
	userID := z.userID
	x.deleteNode(z)
	x.size--
	delete(x.byUser, userID)
	return userID, nil
}

// LowestFree returns the smallest free seat number in [1, capacity], scanning
// reserved seats in ascending order for the first gap.
func (x *Index) LowestFree(capacity int) (int, bool) {
	expected := 1
	x.Ascend(func(seat, _ int) bool {
		if seat > expected {
			return false
		}
		expected = seat + 1
		return true
	})
	if expected > capacity {
		return 0, false
	}
	return expected, true
}

// Ascend applies fn to every reservation in ascending seat order.
// If fn returns false, iteration stops early.
func (x *Index) Ascend(fn func(seat, userID int) bool) {
	for n := x.minNode(x.root); n != x.sentinel; n = x.next(n) {
		if !fn(n.seat, n.userID) {
			return
		}
	}
}

// Reservations returns all reservations in ascending seat order.
func (x *Index) Reservations() []types.Reservation {
	out := make([]types.Reservation, 0, x.size)
	x.Ascend(func(seat, userID int) bool {
		out = append(out, types.Reservation{Seat: seat, UserID: userID})
		return true
	})
	return out
}

// RemoveUserRange deletes every reservation held by a user with ID in the
// inclusive range [lo, hi] and returns the vacated seats in ascending order.
func (x *Index) RemoveUserRange(lo, hi int) []int {
	var freed []int
	for userID, seat := range x.byUser {
		if userID >= lo && userID <= hi {
			freed = append(freed, seat)
		}
	}
	sort.Ints(freed)
	for _, seat := range freed {
		// The seat came from byUser, so the node must exist.
		if _, err := x.Remove(seat); err != nil {
			panic(fmt.Sprintf("reservation index out of sync: %v", err))
		}
	}
	return freed
}

/*************** Internal helpers (search & traversal) ***************/

func (x *Index) search(seat int) *node {
	n := x.root
	for n != x.sentinel {
		switch {
		case seat < n.seat:
			n = n.left
		case seat > n.seat:
			n = n.right
		default:
			return n
		}
	}
	return x.sentinel
}

func (x *Index) minNode(n *node) *node {
	if n == x.sentinel {
		return x.sentinel
	}
	for n.left != x.sentinel {
		n = n.left
	}
	return n
}

// In-order successor
func (x *Index) next(n *node) *node {
	if n.right != x.sentinel {
		return x.minNode(n.right)
	}
	p := n.parent
	for p != x.sentinel && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

/******************** Rotations & fixups ********************/

func (x *Index) leftRotate(n *node) {
	y := n.right
	n.right = y.left
	if y.left != x.sentinel {
		y.left.parent = n
	}
	y.parent = n.parent
	if n.parent == x.sentinel {
		x.root = y
	} else if n == n.parent.left {
		n.parent.left = y
	} else {
		n.parent.right = y
	}
	y.left = n
	n.parent = y
}

func (x *Index) rightRotate(n *node) {
	y := n.left
	n.left = y.right
	if y.right != x.sentinel {
		y.right.parent = n
	}
	y.parent = n.parent
	if n.parent == x.sentinel {
		x.root = y
	} else if n == n.parent.right {
		n.parent.right = y
	} else {
		n.parent.left = y
	}
	y.right = n
	n.parent = y
}

func (x *Index) insertFixup(z *node) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right // uncle
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					x.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				x.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left // uncle
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					x.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				x.leftRotate(z.parent.parent)
			}
		}
	}
	x.root.color = black
}

func (x *Index) transplant(u, v *node) {
	if u.parent == x.sentinel {
		x.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (x *Index) deleteNode(z *node) {
	y := z
	yOrigColor := y.color
	var n *node

	if z.left == x.sentinel {
		n = z.right
		x.transplant(z, z.right)
	} else if z.right == x.sentinel {
		n = z.left
		x.transplant(z, z.left)
	} else {
		y = x.minNode(z.right) // successor
		yOrigColor = y.color
		n = y.right
		if y.parent == z {
			n.parent = y
		} else {
			x.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		x.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOrigColor == black {
		x.deleteFixup(n)
	}
}

func (x *Index) deleteFixup(n *node) {
	for n != x.root && n.color == black {
		if n == n.parent.left {
			w := n.parent.right
			if w.color == red {
				w.color = black
				n.parent.color = red
				x.leftRotate(n.parent)
				w = n.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				n = n.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					x.rightRotate(w)
					w = n.parent.right
				}
				w.color = n.parent.color
				n.parent.color = black
				w.right.color = black
				x.leftRotate(n.parent)
				n = x.root
			}
		} else {
			w := n.parent.left
			if w.color == red {
				w.color = black
				n.parent.color = red
				x.rightRotate(n.parent)
				w = n.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				n = n.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					x.leftRotate(w)
					w = n.parent.left
				}
				w.color = n.parent.color
				n.parent.color = black
				w.left.color = black
				x.rightRotate(n.parent)
				n = x.root
			}
		}
	}
	n.color = black
}
