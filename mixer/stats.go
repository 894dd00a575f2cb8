// SPDX-License-Identifier: EPL-2.0

package mixer

import "sync/atomic"

// Stats counts what the mixing goroutine did so far.
type Stats struct {
	// Periods written successfully, resubmissions included.
	Periods uint64
	// WriteFailures is every failed WritePeriod.
	WriteFailures uint64
	// Recoveries is every successful Recover.
	Recoveries uint64
	// PacedSleeps is how often the loop slept because the sink was ahead.
	PacedSleeps uint64
}

type counters struct {
	periods       atomic.Uint64
	writeFailures atomic.Uint64
	recoveries    atomic.Uint64
	pacedSleeps   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Periods:       c.periods.Load(),
		WriteFailures: c.writeFailures.Load(),
		Recoveries:    c.recoveries.Load(),
		PacedSleeps:   c.pacedSleeps.Load(),
	}
}
