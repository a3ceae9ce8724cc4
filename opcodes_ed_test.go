package z280core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"z280core"
)

func TestAddwSubwCpwHL(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xC6}) // ADDW HL,BC
	c.Regs.HL.SetW(0x1234)
	c.Regs.BC.SetW(0x0010)
	c.Execute(15)
	require.Equal(t, uint16(0x1244), c.Regs.HL.W(), "ADDW HL,BC")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xDE}) // SUBW HL,DE
	c.Regs.HL.SetW(0x0020)
	c.Regs.DE.SetW(0x0005)
	c.Execute(15)
	require.Equal(t, uint16(0x001B), c.Regs.HL.W(), "SUBW HL,DE")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xE7}) // CPW HL,HL
	c.Regs.HL.SetW(0x4242)
	c.Execute(15)
	require.Equal(t, uint16(0x4242), c.Regs.HL.W(), "CPW HL,HL must not modify HL")
	require.NotZero(t, c.Regs.AF.Lo&z280core.FlagZ, "CPW HL,HL comparing equal operands should set Z")
}

func TestExtsAandHL(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x64}) // EXTS A
	c.Regs.AF.Hi = 0x81
	c.Execute(8)
	require.Equal(t, uint16(0xFF81), c.Regs.HL.W(), "EXTS A")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x6C}) // EXTS HL
	c.Regs.HL.SetW(0x8000)
	c.Execute(8)
	require.Equal(t, uint16(0xFFFF), c.Regs.DE.W(), "EXTS HL with H top bit set")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x6C})
	c.Regs.HL.SetW(0x7F00)
	c.Execute(8)
	require.Equal(t, uint16(0x0000), c.Regs.DE.W(), "EXTS HL with H top bit clear")
}

func TestMultAndDivuRegisterFamily(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xC0}) // MULT A,B
	c.Regs.AF.Hi = 6
	c.Regs.BC.Hi = 7
	c.Execute(12)
	require.Equal(t, uint16(42), c.Regs.HL.W(), "MULT A,B")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xC5}) // DIVU HL,B
	c.Regs.HL.SetW(100)
	c.Regs.BC.Hi = 9
	c.Execute(18)
	require.Equal(t, byte(11), c.Regs.AF.Hi, "DIVU HL,B quotient")
	require.Equal(t, byte(1), c.Regs.HL.Lo, "DIVU HL,B remainder")
}

// TestWordBlockMoveViaIndexDisplacement exercises the Z280's extra
// (IX+w)-addressed LD forms (real ED opcodes 0x2C/0x2D), storing HL out
// through an IX-relative effective address and reading it back.
func TestWordBlockMoveViaIndexDisplacement(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x2D, 0x10, 0x00}) // LD (IX+0x0010),HL
	c.Regs.IX.SetW(0x3000)
	c.Regs.HL.SetW(0xBEEF)
	c.Execute(15)
	require.Equal(t, uint16(0xBEEF), mem.ReadWord(0x3010), "LD (IX+w),HL")

	c, mem = newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x2C, 0x10, 0x00}) // LD HL,(IX+0x0010)
	mem.WriteWord(0x3010, 0xCAFE)
	c.Regs.IX.SetW(0x3000)
	c.Execute(15)
	require.Equal(t, uint16(0xCAFE), c.Regs.HL.W(), "LD HL,(IX+w)")
}

// TestCPIRScanEqual runs CPIR to completion over a short buffer and checks
// the exact resting state: HL past the match, BC decremented by the number
// of bytes scanned, Z set.
func TestCPIRScanEqual(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0xB1}) // CPIR
	mem.loadAt(0x2000, []byte{0x10, 0x20, 0x30, 0x40})
	c.Regs.HL.SetW(0x2000)
	c.Regs.BC.SetW(4)
	c.Regs.AF.Hi = 0x30
	c.Execute(200)

	require.Equal(t, uint16(0x2003), c.Regs.HL.W(), "CPIR HL")
	require.Equal(t, uint16(1), c.Regs.BC.W(), "CPIR BC")
	require.NotZero(t, c.Regs.AF.Lo&z280core.FlagZ, "CPIR should set Z on a found match")
}

func TestLdudCrossesIntoUserBank(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x86}) // LDUD A,(HL)
	c.Regs.HL.SetW(0x5000)
	mem.WriteByte(0x5000, 0x77)
	c.Execute(11)
	require.Equal(t, byte(0x77), c.Regs.AF.Hi, "LDUD A,(HL) with MMU disabled (identity-mapped)")
	require.Zero(t, c.Regs.AF.Lo&z280core.FlagC, "LDUD A,(HL) should not set Carry on a successful translation")
}

// TestRetilAtomicDoublePop checks that RETIL (real ED opcode 0x55) pops MSR
// then PC, unlike RETI/RETN which only restore PC.
func TestRetilAtomicDoublePop(t *testing.T) {
	c, mem := newTestSystem()
	mem.loadAt(0, []byte{0xED, 0x55}) // RETIL
	c.Regs.SSP = 0xFF00
	mem.WriteWord(0xFF00, 0x00AA) // MSR to restore
	mem.WriteWord(0xFF02, 0x4000) // PC to restore
	c.Execute(16)

	require.Equal(t, uint16(0x00AA), c.CR.MSR, "RETIL MSR")
	require.Equal(t, uint16(0x4000), c.Regs.PC, "RETIL PC")
	require.Equal(t, uint16(0xFF04), c.Regs.SSP, "RETIL SSP after popping two words")
}

// TestPrivilegedInstructionTrapsInUserMode checks that a representative
// privileged instruction from each CHECK_PRIV/CHECK_PRIV_IO family (LDCTL,
// IN r,(C)) traps PRIV instead of executing when MSR's user bit is set, and
// that TCR's Inhibit-User-I/O bit gates the I/O family independently of the
// non-I/O family.
func TestPrivilegedInstructionTrapsInUserMode(t *testing.T) {
	c, mem := newTestSystem()
	mem.WriteWord(0x54, 0x0000)
	mem.WriteWord(0x56, 0x2000)
	mem.loadAt(0, []byte{0xED, 0x66}) // LDCTL HL,(C)
	c.CR.MSR = z280core.MsrUser

	c.Execute(14)

	require.Equal(t, uint16(0x2000), c.Regs.PC, "LDCTL in user mode should trap PRIV and vector to 0x2000")
	require.Zero(t, c.CR.MSR&z280core.MsrUser, "PRIV trap framing should leave the CPU in system mode")

	c, mem = newTestSystem()
	mem.WriteWord(0x54, 0x0000)
	mem.WriteWord(0x56, 0x2000)
	mem.loadAt(0, []byte{0xED, 0x78}) // IN A,(C)
	c.CR.MSR = z280core.MsrUser
	c.CR.TCR = 0 // Inhibit-User-I/O clear: IN/OUT stay unprivileged in user mode

	c.Execute(12)

	require.Equal(t, uint16(2), c.Regs.PC, "IN A,(C) should execute normally when TCR's I bit is clear")
}
