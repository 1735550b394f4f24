// Package format provides human-readable rendering of pipeline timings for
// log output and the demo CLI.
package format

import (
	"fmt"
	"time"
)

// StageDuration formats a stage's elapsed time for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default string representation
// otherwise. Filter stages routinely finish in well under a millisecond, so
// the default representation alone reads poorly in run summaries.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func StageDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
