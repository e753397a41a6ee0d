package types

// Command represents a single parsed script command.
type Command struct {
	Name string
	Args []int
	Line int // 1-based line number in the input script
}

// Reservation is a single seat→user assignment.
type Reservation struct {
	Seat   int
	UserID int
}

// Assignment records a seat being handed to a waitlisted user during
// reassignment (after Cancel, AddSeats or ReleaseSeats).
type Assignment struct {
	Seat   int
	UserID int
}
