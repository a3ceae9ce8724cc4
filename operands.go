package z280core

// indexMode selects which base register the (HL) operand slot (register
// code 6) resolves against, set by the DD/FD prefix dispatchers before
// calling into the shared root-table generator (the standard trick used to
// reuse one table of opcode handlers for unprefixed, DD- and FD-prefixed
// forms, grounded on retrogolib's indexed-addressing handling).
const (
	indexModeHL byte = iota
	indexModeIX
	indexModeIY
)

// hlAddr returns the effective address the (HL)/(IX+d)/(IY+d) operand slot
// resolves to for the instruction currently executing.
func (c *System) hlAddr() uint16 {
	switch c.useIndex {
	case indexModeIX:
		return uint16(int32(c.Regs.IX.W()) + int32(c.indexDisp))
	case indexModeIY:
		return uint16(int32(c.Regs.IY.W()) + int32(c.indexDisp))
	default:
		return c.Regs.HL.W()
	}
}

// get8/set8 resolve one of the eight 3-bit register codes (B C D E H L
// (HL) A), honoring the active index mode for code 6. When indexed, codes
// 4/5 (H/L) still name IXH/IXL or IYH/IYL on Z80-compatible undocumented
// opcodes; the Z280 does not document these, so plain H/L is used instead
// (spec.md is silent here; see DESIGN.md Open Question).
func (c *System) get8(code byte) byte {
	switch code {
	case 0:
		return c.Regs.BC.Hi
	case 1:
		return c.Regs.BC.Lo
	case 2:
		return c.Regs.DE.Hi
	case 3:
		return c.Regs.DE.Lo
	case 4:
		return c.Regs.HL.Hi
	case 5:
		return c.Regs.HL.Lo
	case 6:
		return c.ReadByte(c.hlAddr())
	default:
		return c.Regs.AF.Hi
	}
}

func (c *System) set8(code byte, v byte) {
	switch code {
	case 0:
		c.Regs.BC.Hi = v
	case 1:
		c.Regs.BC.Lo = v
	case 2:
		c.Regs.DE.Hi = v
	case 3:
		c.Regs.DE.Lo = v
	case 4:
		c.Regs.HL.Hi = v
	case 5:
		c.Regs.HL.Lo = v
	case 6:
		c.WriteByte(c.hlAddr(), v)
	default:
		c.Regs.AF.Hi = v
	}
}

// rp16/setRP16 resolve the four "register pair" codes used by 16-bit load/
// arithmetic opcodes: 0=BC 1=DE 2=HL(or IX/IY when indexed) 3=SP.
func (c *System) rp16(code byte) uint16 {
	switch code {
	case 0:
		return c.Regs.BC.W()
	case 1:
		return c.Regs.DE.W()
	case 2:
		return c.indexedHL()
	default:
		return c.SP()
	}
}

func (c *System) setRP16(code byte, v uint16) {
	switch code {
	case 0:
		c.Regs.BC.SetW(v)
	case 1:
		c.Regs.DE.SetW(v)
	case 2:
		c.setIndexedHL(v)
	default:
		c.SetSP(v)
	}
}

func (c *System) indexedHL() uint16 {
	switch c.useIndex {
	case indexModeIX:
		return c.Regs.IX.W()
	case indexModeIY:
		return c.Regs.IY.W()
	default:
		return c.Regs.HL.W()
	}
}

func (c *System) setIndexedHL(v uint16) {
	switch c.useIndex {
	case indexModeIX:
		c.Regs.IX.SetW(v)
	case indexModeIY:
		c.Regs.IY.SetW(v)
	default:
		c.Regs.HL.SetW(v)
	}
}

// rpAF16/setRPAF16 resolve the alternate "register pair" set used by PUSH/
// POP, which use AF in place of SP for code 3.
func (c *System) rpAF16(code byte) uint16 {
	if code == 3 {
		return c.Regs.AF.W()
	}
	return c.rp16(code)
}

func (c *System) setRPAF16(code byte, v uint16) {
	if code == 3 {
		c.Regs.AF.SetW(v)
		return
	}
	c.setRP16(code, v)
}

// condition evaluates one of the eight condition codes used by conditional
// jump/call/ret opcodes, in encoding order NZ Z NC C PO PE P M.
func (c *System) condition(code byte) bool {
	f := c.Regs.AF.Lo
	switch code {
	case 0:
		return f&FlagZ == 0
	case 1:
		return f&FlagZ != 0
	case 2:
		return f&FlagC == 0
	case 3:
		return f&FlagC != 0
	case 4:
		return f&FlagP == 0
	case 5:
		return f&FlagP != 0
	case 6:
		return f&FlagS == 0
	default:
		return f&FlagS != 0
	}
}

func (c *System) push(v uint16) {
	sp := c.SP() - 2
	c.SetSP(sp)
	c.WriteWord(sp, v)
}

func (c *System) pop() uint16 {
	sp := c.SP()
	v := c.ReadWord(sp)
	c.SetSP(sp + 2)
	return v
}
