package stats

import (
	"sync"
	"time"
)

// CommandStats holds per-command-type counters.
type CommandStats struct {
	Executed uint64
	Failed   uint64
}

// Collector aggregates counters for a single script run.
type Collector struct {
	StartTime time.Time
	EndTime   time.Time

	CommandStats map[string]*CommandStats

	SeatsReserved   uint64
	UsersWaitlisted uint64
	Reassignments   uint64
	Cancellations   uint64
	SeatsReleased   uint64
	WaitlistExits   uint64

	mu sync.Mutex
}

// NewCollector creates a new statistics collector.
func NewCollector() *Collector {
	return &Collector{
		StartTime:    time.Now(),
		CommandStats: make(map[string]*CommandStats),
	}
}

func (c *Collector) getOrCreate(name string) *CommandStats {
	if _, ok := c.CommandStats[name]; !ok {
		c.CommandStats[name] = &CommandStats{}
	}
	return c.CommandStats[name]
}

// RecordCommand records a command being executed.
func (c *Collector) RecordCommand(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getOrCreate(name).Executed++
}

// RecordFailure records a command that was rejected by the engine.
func (c *Collector) RecordFailure(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getOrCreate(name).Failed++
}

// RecordReservation increments the seated-user count.
func (c *Collector) RecordReservation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SeatsReserved++
}

// RecordWaitlisted increments the waitlist-admission count.
func (c *Collector) RecordWaitlisted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UsersWaitlisted++
}

// RecordReassignments adds n seat reassignments (cancel, add-seats or
// release driven).
func (c *Collector) RecordReassignments(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Reassignments += uint64(n)
}

// RecordCancellation increments the cancellation count.
func (c *Collector) RecordCancellation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cancellations++
}

// RecordSeatsReleased adds n seats freed by a range release.
func (c *Collector) RecordSeatsReleased(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SeatsReleased += uint64(n)
}

// RecordWaitlistExit increments the explicit waitlist-exit count.
func (c *Collector) RecordWaitlistExit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.WaitlistExits++
}

// Finish marks the end of the collection period.
func (c *Collector) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.EndTime = time.Now()
}

// Duration returns the elapsed time.
func (c *Collector) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EndTime.IsZero() {
		return time.Since(c.StartTime)
	}
	return c.EndTime.Sub(c.StartTime)
}

// TotalCommands returns the total number of commands executed.
func (c *Collector) TotalCommands() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total uint64
	for _, s := range c.CommandStats {
		total += s.Executed
	}
	return total
}

// Snapshot returns a copy of the current statistics (thread-safe).
func (c *Collector) Snapshot() *Collector {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &Collector{
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		CommandStats:    make(map[string]*CommandStats),
		SeatsReserved:   c.SeatsReserved,
		UsersWaitlisted: c.UsersWaitlisted,
		Reassignments:   c.Reassignments,
		Cancellations:   c.Cancellations,
		SeatsReleased:   c.SeatsReleased,
		WaitlistExits:   c.WaitlistExits,
	}
	for k, v := range c.CommandStats {
		snap.CommandStats[k] = &CommandStats{Executed: v.Executed, Failed: v.Failed}
	}
	return snap
}
