package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"ticket-booth/internal/engine"
	"ticket-booth/internal/stats"
	"ticket-booth/internal/waitlist"
	"ticket-booth/pkg/types"
)

// Runner dispatches parsed commands into the allocation engine and writes
// the literal result lines to out.
type Runner struct {
	engine *engine.Engine
	stats  *stats.Collector
	out    io.Writer
}

// NewRunner creates a runner writing result lines to out.
func NewRunner(eng *engine.Engine, collector *stats.Collector, out io.Writer) *Runner {
	return &Runner{
		engine: eng,
		stats:  collector,
		out:    out,
	}
}

// Run executes all commands in order. It stops early on a Quit command or
// when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, commands []types.Command) error {
	for _, cmd := range commands {
		select {
		case <-ctx.Done():
			log.Info("Run cancelled")
			return ctx.Err()
		default:
		}

		stop, err := r.Execute(cmd)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"line":    cmd.Line,
				"command": cmd.Name,
			}).Warn("Command rejected")
		}
		if stop {
			break
		}
	}
	return nil
}

// Execute runs a single command. The returned error reports engine
// rejections (the run continues); stop is true for Quit.
func (r *Runner) Execute(cmd types.Command) (stop bool, err error) {
	r.stats.RecordCommand(cmd.Name)

	switch cmd.Name {
	case "Initialize":
		err = r.initialize(cmd)
	case "Available":
		err = r.available(cmd)
	case "Reserve":
		err = r.reserve(cmd)
	case "Cancel":
		err = r.cancel(cmd)
	case "ExitWaitlist":
		err = r.exitWaitlist(cmd)
	case "UpdatePriority":
		err = r.updatePriority(cmd)
	case "AddSeats":
		err = r.addSeats(cmd)
	case "PrintReservations":
		err = r.printReservations(cmd)
	case "ReleaseSeats":
		err = r.releaseSeats(cmd)
	case "Quit":
		r.emit("Program Terminated!!")
		return true, nil
	default:
		err = fmt.Errorf("unknown command %q", cmd.Name)
	}

	if err != nil {
		r.stats.RecordFailure(cmd.Name)
	}
	return false, err
}

func (r *Runner) emit(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Runner) initialize(cmd types.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	if err := r.engine.Initialize(cmd.Args[0]); err != nil {
		return err
	}
	r.emit("%d Seats are made available for reservation", cmd.Args[0])
	return nil
}

func (r *Runner) available(cmd types.Command) error {
	if err := requireArgs(cmd, 0); err != nil {
		return err
	}
	free, waiting := r.engine.Available()
	r.emit("Total Seats Available : %d, Waitlist : %d", free, waiting)
	return nil
}

func (r *Runner) reserve(cmd types.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	userID := cmd.Args[0]
	res, err := r.engine.Reserve(userID, cmd.Args[1])
	if err != nil {
		if errors.Is(err, waitlist.ErrAlreadyWaiting) {
			r.emit("User %d is already in the waiting list", userID)
		}
		return err
	}
	if res.Waitlisted {
		r.stats.RecordWaitlisted()
		r.emit("User %d is added to the waiting list", userID)
		return nil
	}
	r.stats.RecordReservation()
	r.emit("User %d reserved seat %d", userID, res.Seat)
	return nil
}

func (r *Runner) cancel(cmd types.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	seat, userID := cmd.Args[0], cmd.Args[1]
	res, err := r.engine.Cancel(seat, userID)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			r.emit("User %d has no reservation for seat %d to cancel", userID, seat)
		}
		return err
	}
	r.stats.RecordCancellation()
	r.emit("User %d canceled their reservation", userID)
	if res.Reassigned != nil {
		r.stats.RecordReassignments(1)
		r.emit("User %d reserved seat %d", res.Reassigned.UserID, res.Reassigned.Seat)
	}
	return nil
}

func (r *Runner) exitWaitlist(cmd types.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	userID := cmd.Args[0]
	if r.engine.ExitWaitlist(userID) {
		r.stats.RecordWaitlistExit()
		r.emit("User %d is removed from the waiting list", userID)
	} else {
		r.emit("User %d is not in waitlist", userID)
	}
	return nil
}

func (r *Runner) updatePriority(cmd types.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	userID := cmd.Args[0]
	res, err := r.engine.UpdatePriority(userID, cmd.Args[1])
	if err != nil {
		if errors.Is(err, waitlist.ErrNotWaiting) {
			r.emit("User %d priority is not updated", userID)
		}
		return err
	}
	if res.Unchanged {
		r.emit("User %d priority is already the highest", userID)
		return nil
	}
	r.emit("User %d priority has been updated to %d", userID, res.Priority)
	return nil
}

func (r *Runner) addSeats(cmd types.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	res, err := r.engine.AddSeats(cmd.Args[0])
	if err != nil {
		return err
	}
	r.emit("%d Seats are made available for reservation", res.Added)
	r.emitAssignments(res.Assignments)
	return nil
}

func (r *Runner) printReservations(cmd types.Command) error {
	if err := requireArgs(cmd, 0); err != nil {
		return err
	}
	reservations := r.engine.Reservations()
	if len(reservations) == 0 {
		r.emit("No seats reserved")
		return nil
	}
	for _, res := range reservations {
		r.emit("Seat %d, User %d", res.Seat, res.UserID)
	}
	return nil
}

func (r *Runner) releaseSeats(cmd types.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	lo, hi := cmd.Args[0], cmd.Args[1]
	res, err := r.engine.ReleaseSeats(lo, hi)
	if err != nil {
		return err
	}
	r.stats.RecordSeatsReleased(len(res.FreedSeats))
	r.emit("Reservations of the Users in the range [%d, %d] have been released", lo, hi)
	r.emitAssignments(res.Assignments)
	return nil
}

func (r *Runner) emitAssignments(assignments []types.Assignment) {
	if len(assignments) > 0 {
		r.stats.RecordReassignments(len(assignments))
	}
	for _, a := range assignments {
		r.emit("User %d reserved seat %d", a.UserID, a.Seat)
	}
}

func requireArgs(cmd types.Command, n int) error {
	if len(cmd.Args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", cmd.Name, n, len(cmd.Args))
	}
	return nil
}
