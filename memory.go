package z280core

// accvAbort is panicked to unwind the current instruction on an access
// violation, the Go equivalent of the original core's setjmp/longjmp
// (spec.md section 9 explicitly allows either shape). It is recovered at
// the top of the per-instruction dispatch in cpu.go, which is also where
// the trap frame is built — so the register state visible to the trap
// handler is whatever was committed before the faulting access; effects the
// instruction made before that access are not rolled back.
type accvAbort struct {
	faultPC uint16
}

func (c *System) raiseACCV(faultPC uint16) {
	panic(accvAbort{faultPC: faultPC})
}

// translateOrTrap translates a logical address and aborts the instruction
// with ACCV on failure, recording the faulting PDR index in the MMU's PFI.
func (c *System) translateOrTrap(logical uint16, kind AccessKind, faultPC uint16) uint32 {
	phys, pdrIndex, ok := c.MMU.Translate(logical, kind, c.userMode())
	c.lastEA, c.lastPDR = phys, pdrIndex
	if !ok {
		if pdrIndex >= 0 {
			c.MMU.PFI = byte(pdrIndex)
		}
		c.raiseACCV(faultPC)
	}
	return phys
}

// FetchByte reads one instruction byte through the MMU, using the host's
// side-effect-free raw read.
func (c *System) FetchByte() byte {
	phys := c.translateOrTrap(c.Regs.PC, AccessFetch, c.Regs.PC)
	b := c.Mem.ReadRawByte(phys)
	c.Regs.PC++
	return b
}

// FetchByteAt fetches a byte for decode without advancing PC (used to peek
// ahead, e.g. prefix bytes already consumed by the caller).
func (c *System) FetchByteAt(logical uint16) byte {
	phys := c.translateOrTrap(logical, AccessFetch, c.Regs.PC)
	return c.Mem.ReadRawByte(phys)
}

// ReadByte reads one data byte through the MMU.
func (c *System) ReadByte(addr uint16) byte {
	phys := c.translateOrTrap(addr, AccessRead, c.Regs.PC)
	return c.Mem.ReadByte(phys)
}

// WriteByte writes one data byte through the MMU.
func (c *System) WriteByte(addr uint16, v byte) {
	phys := c.translateOrTrap(addr, AccessWrite, c.Regs.PC)
	c.Mem.WriteByte(phys, v)
}

// ReadWord reads a 16-bit value, retranslating across a page boundary if
// the two bytes fall in different pages (spec.md section 4.1). On a 16-bit
// bus an aligned word never crosses a page and is one host transfer.
func (c *System) ReadWord(addr uint16) uint16 {
	if c.bus16 && addr&1 == 0 {
		return c.Mem.ReadWord(c.translateOrTrap(addr, AccessRead, c.Regs.PC))
	}
	lo := c.ReadByte(addr)
	hi := c.ReadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord writes a 16-bit value, retranslating across a page boundary.
func (c *System) WriteWord(addr uint16, v uint16) {
	if c.bus16 && addr&1 == 0 {
		c.Mem.WriteWord(c.translateOrTrap(addr, AccessWrite, c.Regs.PC), v)
		return
	}
	c.WriteByte(addr, byte(v))
	c.WriteByte(addr+1, byte(v>>8))
}

// FetchWord fetches two instruction bytes (immediate operands), advancing
// PC by two.
func (c *System) FetchWord() uint16 {
	lo := c.FetchByte()
	hi := c.FetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

// TranslateUserForced performs the LDUD/LDUP access: from system mode,
// force the user PDR bank. Failures never trap; instead ok reports
// success and v/wp report the offending PDR's bits for the caller to fold
// into Z/V flags with Carry set.
func (c *System) TranslateUserForced(logical uint16, write bool) (phys uint32, ok, v, wp bool) {
	kind := AccessRead
	if write {
		kind = AccessWrite
	}
	phys, pdrIndex, ok := c.MMU.TranslateForced(logical, kind, true)
	if pdrIndex < 0 {
		return phys, true, true, false
	}
	pdr := c.MMU.PDR[pdrIndex]
	return phys, ok, pdr&0x0008 != 0, pdr&0x0004 != 0
}

// Translate exposes address translation without performing the access, for
// debugger-style tools (spec.md section 6, "translate ... for debugger").
// It never raises ACCV: a failed translation is reported as an error.
func (c *System) Translate(addr uint16, kind AccessKind) (uint32, error) {
	saved := c.MMU.PDR
	phys, _, ok := c.MMU.Translate(addr, kind, c.userMode())
	c.MMU.PDR = saved // a write-kind lookup must not set the PDR's M bit
	if !ok {
		return 0, ErrUnmappedInternalIO
	}
	return phys, nil
}
