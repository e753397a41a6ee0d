package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Reporter outputs run statistics to console and/or file.
type Reporter struct {
	collector  *Collector
	exportFile string
}

// NewReporter creates a new statistics reporter.
func NewReporter(collector *Collector, exportFile string) *Reporter {
	return &Reporter{
		collector:  collector,
		exportFile: exportFile,
	}
}

// PrintFinalReport prints the final statistics summary.
func (r *Reporter) PrintFinalReport() {
	r.collector.Finish()
	fmt.Println(r.FormatReport())
}

// ExportJSON exports statistics to a JSON file.
func (r *Reporter) ExportJSON() error {
	if r.exportFile == "" {
		return nil
	}

	snap := r.collector.Snapshot()

	export := map[string]interface{}{
		"start_time":   snap.StartTime.Format(time.RFC3339),
		"end_time":     snap.EndTime.Format(time.RFC3339),
		"duration_sec": snap.Duration().Seconds(),
		"commands":     map[string]interface{}{},
		"seats": map[string]interface{}{
			"reserved":       snap.SeatsReserved,
			"waitlisted":     snap.UsersWaitlisted,
			"reassigned":     snap.Reassignments,
			"cancellations":  snap.Cancellations,
			"released":       snap.SeatsReleased,
			"waitlist_exits": snap.WaitlistExits,
		},
	}

	cmds := export["commands"].(map[string]interface{})
	for name, s := range snap.CommandStats {
		cmds[name] = map[string]interface{}{
			"executed": s.Executed,
			"failed":   s.Failed,
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats JSON: %w", err)
	}

	if err := os.WriteFile(r.exportFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file %s: %w", r.exportFile, err)
	}

	log.WithField("file", r.exportFile).Info("Statistics exported to JSON")
	return nil
}

// FormatReport generates a formatted statistics report string.
func (r *Reporter) FormatReport() string {
	snap := r.collector.Snapshot()
	elapsed := snap.Duration()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n=== Ticket Booth Statistics (elapsed: %s) ===\n", elapsed.Round(time.Millisecond)))
	sb.WriteString("Commands:\n")

	// Sort command names for consistent output
	names := make([]string, 0, len(snap.CommandStats))
	for name := range snap.CommandStats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := snap.CommandStats[name]
		sb.WriteString(fmt.Sprintf("  %-20s executed=%-5d failed=%-5d\n", name+":", s.Executed, s.Failed))
	}

	sb.WriteString("Seats:\n")
	sb.WriteString(fmt.Sprintf("  Reserved: %d  |  Waitlisted: %d  |  Reassigned: %d\n",
		snap.SeatsReserved, snap.UsersWaitlisted, snap.Reassignments))
	sb.WriteString(fmt.Sprintf("  Canceled: %d  |  Released: %d  |  Waitlist exits: %d\n",
		snap.Cancellations, snap.SeatsReleased, snap.WaitlistExits))

	sb.WriteString("================================================\n")
	return sb.String()
}
