package z280core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"z280core"
)

// TestCounterTimerTerminalCountExactOutcome runs unit 0 in continuous mode
// with a short time constant (IE set) and checks that it reaches terminal
// count and reloads, within a budget of T-states that ends exactly on the
// reload tick.
func TestCounterTimerTerminalCountExactOutcome(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, make([]byte, 64)) // NOPs for the CPU to spend T-states on

	u := &c.CT.Unit[0]
	u.Config = z280core.CTCfgContinuous | z280core.CTCfgIE
	u.TimeConstant = 2
	u.Count = 2
	u.CmdStatus = z280core.CTCsEnable | z280core.CTCsGate

	// The counter/timer input is the instruction clock divided by 4, and a
	// NOP costs 4 T-states, so one tick lands per NOP. Reaching terminal
	// count from 2 and reloading takes exactly 3 ticks; stop there so the
	// reload is the last thing that happens (running further would start
	// decrementing the reloaded count again).
	c.Execute(12)

	require.NotZero(t, u.CmdStatus&z280core.CTCsComplete, "expected CTCsComplete set after reaching terminal count")
	require.Equal(t, u.TimeConstant, u.Count, "continuous mode should reload Count to TimeConstant")
}
