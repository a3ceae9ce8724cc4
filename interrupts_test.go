package z280core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"z280core"
)

// TestInterruptMode1ExactOutcome checks that an accepted maskable interrupt
// in IM 1 pushes the interrupted PC, clears the MSR's interrupt-enable
// field, and vectors to the fixed 0x0038 entry point.
func TestInterruptMode1ExactOutcome(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0x00, 0x00, 0x00, 0x00}) // NOPs, so the post-vector fetch is harmless

	c.Regs.IM = 1
	c.CR.MSR = 1 << 0 // enable IRQ0's interrupt-request-enable bit
	c.SetIRQLine(0, true)

	c.Execute(20)

	require.GreaterOrEqual(t, c.Regs.PC, uint16(0x0038), "expected PC to have vectored to/past 0x0038")
	require.Zero(t, c.CR.MSR&z280core.MsrIREMask, "MSR interrupt-request-enable bits should be cleared on IRQ entry")
	require.Equal(t, uint16(0xFFFE), c.Regs.SSP, "SSP after one push")
	require.Equal(t, uint16(0x0000), mem.ReadWord(0xFFFE), "pushed return PC should be the interrupted PC")
}

// TestAccessViolationTrapExactOutcome enables the MMU in non-separate mode
// with an all-invalid page table, so the very first instruction fetch
// faults; it checks the full mode-3 trap frame the original core's seven-
// step stacking procedure builds.
func TestAccessViolationTrapExactOutcome(t *testing.T) {
	c, mem := newTestSystem()
	// ACCV's vector-table entry (IVTP=0 so the table starts at physical 0):
	// new MSR at 0x4C, new PC at 0x4E.
	mem.WriteWord(0x4C, 0x0000)
	mem.WriteWord(0x4E, 0x1000)

	c.MMU.Mode = z280core.MMUEnabledNonSeparate
	// All PDRs are zero (invalid) after Reset, so any fetch traps immediately.

	// A budget of exactly one trap's cost (12 T-states): the vector table
	// entry re-points PC into another unmapped page, so running further
	// would just re-trap and this test wants to inspect the first frame.
	c.Execute(12)

	require.Equal(t, uint16(0x1000), c.Regs.PC, "ACCV trap PC should come from the vector table")
	require.Equal(t, uint16(0x0000), c.CR.MSR, "ACCV trap MSR should come from the vector table")
	require.Equal(t, uint16(0xFFFC), c.Regs.SSP, "ACCV trap should push two words")
	require.Equal(t, uint16(0x0000), mem.ReadWord(0xFFFE), "ACCV trap pushed old MSR")
	require.Equal(t, uint16(0x0000), mem.ReadWord(0xFFFC), "ACCV trap pushed faulting PC")
}

// TestPrivTrapExactOutcome checks the full mode-3 trap frame a PRIV
// violation builds: HALT executed from user mode must trap rather than
// halt the CPU.
func TestPrivTrapExactOutcome(t *testing.T) {
	c, mem := newTestSystem()
	mem.WriteWord(0x54, 0x0000)
	mem.WriteWord(0x56, 0x3000)
	mem.loadAt(0, []byte{0x76}) // HALT
	c.CR.MSR = z280core.MsrUser

	c.Execute(4)

	require.False(t, c.Regs.Halted, "HALT in user mode should trap PRIV, not halt")
	require.Equal(t, uint16(0x3000), c.Regs.PC, "PRIV trap PC should come from the vector table")
	require.Equal(t, uint16(0xFFFC), c.Regs.SSP, "PRIV trap should push two words")
	require.Equal(t, z280core.MsrUser, mem.ReadWord(0xFFFE), "PRIV trap pushed old (pre-trap) MSR")
	require.Equal(t, uint16(0x0000), mem.ReadWord(0xFFFC), "PRIV trap pushed faulting PC")
}
