package z280core

// dispatchED executes the ED-prefixed instruction set: the classic Z80
// block/IO/16-bit-arithmetic extensions plus the Z280-specific additions
// (MULT/DIV family, ADDW/SUBW/CPW, LDCTL, LDUD/LDUP, SC, PCACHE, EPU[MFI],
// RETIL, the extra-addressing-mode LDA/LD forms, EXTS) that spec.md section
// 4.2 calls for. Byte encodings are grounded directly on the original
// core's z280ed.c opcode table rather than invented (see DESIGN.md).
func (c *System) dispatchED(pc uint16) int {
	op := c.FetchByte()

	switch op {
	// --- Extra-addressing-mode LDA/LD forms: each row computes one
	// effective address, then the low 3 bits of the opcode select LDA
	// HL,(ea) / LD (ea),A / LD HL,(ea) / LD (ea),HL (spec.md section 4.1's
	// additional Z280 addressing modes, reusing the original's EASP16 /
	// EAHX / EAHY / EAXY / EARA / EAX16 / EAY16 / EAH16 computations). ---
	case 0x02, 0x03, 0x04, 0x05: // (SP+w)
		c.ldaFamily(c.eaSP16(), op&7)
		return 15
	case 0x0A, 0x0B, 0x0C, 0x0D: // (HL+IX)
		c.ldaFamily(c.eaHX(), op&7)
		return 15
	case 0x12, 0x13, 0x14, 0x15: // (HL+IY)
		c.ldaFamily(c.eaHY(), op&7)
		return 15
	case 0x1A, 0x1B, 0x1C, 0x1D: // (IX+IY)
		c.ldaFamily(c.eaXY(), op&7)
		return 15
	case 0x22, 0x23, 0x24, 0x25: // (PC+w), PC-relative
		c.ldaFamily(c.eaRA(), op&7)
		return 15
	case 0x2A, 0x2B, 0x2C, 0x2D: // (IX+w)
		c.ldaFamily(c.eaX16(), op&7)
		return 15
	case 0x32, 0x33, 0x34, 0x35: // (IY+w)
		c.ldaFamily(c.eaY16(), op&7)
		return 15
	case 0x3A, 0x3B, 0x3C, 0x3D: // (HL+w)
		c.ldaFamily(c.eaH16(), op&7)
		return 15

	// --- Direct register-pair memory transfers and A-exchange family ---
	case 0x06: // LD BC,(HL)
		c.Regs.BC.SetW(c.ReadWord(c.Regs.HL.W()))
		return 15
	case 0x0E: // LD (HL),BC
		c.WriteWord(c.Regs.HL.W(), c.Regs.BC.W())
		return 15
	case 0x16: // LD DE,(HL)
		c.Regs.DE.SetW(c.ReadWord(c.Regs.HL.W()))
		return 15
	case 0x1E: // LD (HL),DE
		c.WriteWord(c.Regs.HL.W(), c.Regs.DE.W())
		return 15
	case 0x26: // LD HL,(HL)
		c.Regs.HL.SetW(c.ReadWord(c.Regs.HL.W()))
		return 15
	case 0x2E: // LD (HL),HL
		c.WriteWord(c.Regs.HL.W(), c.Regs.HL.W())
		return 15
	case 0x36: // LD SP,(HL)
		c.SetSP(c.ReadWord(c.Regs.HL.W()))
		return 15
	case 0x3E: // LD (HL),SP
		c.WriteWord(c.Regs.HL.W(), c.SP())
		return 15
	case 0x07, 0x0F, 0x17, 0x1F, 0x27, 0x2F: // EX A,B/C/D/E/H/L
		idx := (op >> 3) & 7
		tmp := c.get8(idx)
		c.set8(idx, c.a())
		c.setA(tmp)
		return 8
	case 0x37: // EX A,(HL)
		addr := c.Regs.HL.W()
		tmp := c.a()
		c.setA(c.ReadByte(addr))
		c.WriteByte(addr, tmp)
		return 15
	case 0x3F: // EX A,A (no-op)
		return 8

	// --- Single I/O, register selected by opcode's bits 3-5 ---
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x78: // IN r,(C)
		if c.checkPrivIO(pc) {
			return 12
		}
		v := c.ioReadByte(c.Regs.BC.W())
		c.set8((op>>3)&7, v)
		c.setF(SZPTable[v] | c.f()&FlagC)
		return 12
	case 0x70: // TSTI (C): read and discard, flags only
		if c.checkPrivIO(pc) {
			return 12
		}
		v := c.ioReadByte(c.Regs.BC.W())
		c.setF(SZPTable[v] | c.f()&FlagC)
		return 12
	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x79: // OUT (C),r
		if c.checkPrivIO(pc) {
			return 12
		}
		c.ioWriteByte(c.Regs.BC.W(), c.get8((op>>3)&7))
		return 12

	// --- 16-bit arithmetic: SBC/ADC (full flags, carry-in) and ADDW/SUBW/
	// CPW (full flags, no carry-in), register pair selected by bits 4-5 ---
	case 0x42, 0x52, 0x62, 0x72: // SBC HL,rp
		c.Regs.HL.SetW(c.sbc16(c.Regs.HL.W(), c.rp16((op>>4)&3)))
		return 15
	case 0x4A, 0x5A, 0x6A, 0x7A: // ADC HL,rp
		c.Regs.HL.SetW(c.adc16(c.Regs.HL.W(), c.rp16((op>>4)&3)))
		return 15
	case 0x43, 0x53, 0x73: // LD (nn),rp (BC/DE/SP; HL already has LD (nn),HL
		// at the unprefixed 0x22 opcode)
		c.WriteWord(c.FetchWord(), c.rp16((op>>4)&3))
		return 20
	case 0x4B, 0x5B, 0x7B: // LD rp,(nn)
		c.setRP16((op>>4)&3, c.ReadWord(c.FetchWord()))
		return 20

	// --- Misc accumulator / register ops ---
	case 0x44: // NEG
		a := c.a()
		c.setA(0)
		c.sub8(a, false, true)
		return 8
	case 0x4C: // NEG HL
		c.negHL()
		return 15
	case 0x45: // RETN
		if c.checkPriv(pc) {
			return 14
		}
		c.execRETN()
		return 14
	case 0x4D: // RETI
		if c.checkPriv(pc) {
			return 14
		}
		c.execRETI()
		return 14
	case 0x55: // RETIL (Z280 extension: atomic MSR+PC double pop)
		if c.checkPriv(pc) {
			return 16
		}
		c.execRETIL()
		return 16
	case 0x46: // IM 0
		if c.checkPriv(pc) {
			return 8
		}
		c.Regs.IM = 0
		return 8
	case 0x56: // IM 1
		if c.checkPriv(pc) {
			return 8
		}
		c.Regs.IM = 1
		return 8
	case 0x5E: // IM 2
		if c.checkPriv(pc) {
			return 8
		}
		c.Regs.IM = 2
		return 8
	case 0x4E: // IM 3
		if c.checkPriv(pc) {
			return 8
		}
		c.Regs.IM = 3
		return 8
	case 0x47: // LD I,A
		if c.checkPriv(pc) {
			return 9
		}
		c.Regs.I = c.a()
		return 9
	case 0x4F: // LD R,A
		if c.checkPriv(pc) {
			return 9
		}
		c.Regs.R = c.a()
		return 9
	case 0x57: // LD A,I
		if c.checkPriv(pc) {
			return 9
		}
		c.setA(c.Regs.I)
		c.setLDAFlags(c.Regs.I)
		return 9
	case 0x5F: // LD A,R
		if c.checkPriv(pc) {
			return 9
		}
		c.setA(c.Regs.R)
		c.setLDAFlags(c.Regs.R)
		return 9
	case 0x64: // EXTS A
		c.extendSignByte()
		return 8
	case 0x6C: // EXTS HL
		c.extendSignWord()
		return 8
	case 0x65: // PCACHE: purge instruction prefetch cache; no functional
		// effect on this model.
		return 8
	case 0x66: // LDCTL HL,(C)
		if c.checkPriv(pc) {
			return 14
		}
		v, err := c.ReadControlWord(int(c.Regs.BC.Lo))
		if err == nil {
			c.Regs.HL.SetW(v)
		}
		return 14
	case 0x6E: // LDCTL (C),HL
		if c.checkPriv(pc) {
			return 14
		}
		_ = c.WriteControlWord(int(c.Regs.BC.Lo), c.Regs.HL.W())
		return 14
	case 0x87: // LDCTL HL,USP
		c.Regs.HL.SetW(c.Regs.USP)
		return 9
	case 0x8F: // LDCTL USP,HL
		c.Regs.USP = c.Regs.HL.W()
		return 9
	case 0x67: // RRD
		c.rrd()
		return 18
	case 0x6F: // RLD
		c.rld()
		return 18
	case 0x6D: // ADD HL,A
		c.addHLA()
		return 9

	case 0x71: // SC: system call trap
		c.TakeTrap(TrapSC, c.Regs.PC, nil)
		return 18
	// SBC HL,SP / LD (w),SP / IN A,(C) / OUT (C),A / ADC HL,SP / LD SP,(w)
	// at 0x72/73/78/79/7A/7B fall out of the rp- and register-keyed groups
	// above (0x72, 0x7A select SP via rp16(3); 0x73, 0x7B via the same rp
	// index; 0x78, 0x79 select A via get8(7)) so they need no separate case
	// here.
	case 0x77: // DI n: clear the named interrupt-request-enable bits
		n := c.FetchByte()
		if c.checkPriv(pc) {
			return 10
		}
		c.CR.MSR &^= uint16(n) & MsrIREMask
		return 10
	case 0x7F: // EI n: set the named interrupt-request-enable bits, and
		// defer acceptance for one instruction (spec.md section 5).
		n := c.FetchByte()
		if c.checkPriv(pc) {
			return 10
		}
		c.CR.MSR |= uint16(n) & MsrIREMask
		c.Intr.afterEI = true
		return 10

	// --- Z280 word-block I/O extensions: transfer a 16-bit word per
	// iteration, bumping HL by +-2 (spec.md section 4.2). ---
	case 0x82: // INIW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockInWord(true)
		return 16
	case 0x83: // OUTIW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOutWord(true)
		return 16
	case 0x8A: // INDW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockInWord(false)
		return 16
	case 0x8B: // OUTDW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOutWord(false)
		return 16
	case 0x92: // INIRW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockInWord(true)
		c.blockIORepeat()
		return 16
	case 0x93: // OTIRW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOutWord(true)
		c.blockIORepeat()
		return 16
	case 0x9A: // INDRW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockInWord(false)
		c.blockIORepeat()
		return 16
	case 0x9B: // OTDRW
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOutWord(false)
		c.blockIORepeat()
		return 16

	// --- LDUD/LDUP: user-space access from system mode. Failure never
	// traps; it sets Carry and folds the offending PDR's V/WP bits into
	// Z/V (spec.md section 4.1). ---
	case 0x86: // LDUD A,(HL)
		if c.checkPriv(pc) {
			return 11
		}
		c.ldudLoad()
		return 11
	case 0x8E: // LDUD (HL),A
		if c.checkPriv(pc) {
			return 11
		}
		c.ldudStore()
		return 11
	case 0x96: // LDUP A,(HL)
		if c.checkPriv(pc) {
			return 11
		}
		c.ldudLoad()
		return 11
	case 0x9E: // LDUP (HL),A
		if c.checkPriv(pc) {
			return 11
		}
		c.ldudStore()
		return 11

	// --- Classic block moves/compares, standard Z80 encoding ---
	case 0xA0: // LDI
		c.blockLoad(true)
		return 16
	case 0xB0: // LDIR
		c.blockLoad(true)
		c.blockLoadRepeat()
		return 16
	case 0xA8: // LDD
		c.blockLoad(false)
		return 16
	case 0xB8: // LDDR
		c.blockLoad(false)
		c.blockLoadRepeat()
		return 16
	case 0xA1: // CPI
		c.blockCompare(true)
		return 16
	case 0xB1: // CPIR
		c.blockCompare(true)
		c.blockCompareRepeat()
		return 16
	case 0xA9: // CPD
		c.blockCompare(false)
		return 16
	case 0xB9: // CPDR
		c.blockCompare(false)
		c.blockCompareRepeat()
		return 16
	case 0xA2: // INI
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockIn(true)
		return 16
	case 0xB2: // INIR
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockIn(true)
		c.blockIORepeat()
		return 16
	case 0xAA: // IND
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockIn(false)
		return 16
	case 0xBA: // INDR
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockIn(false)
		c.blockIORepeat()
		return 16
	case 0xA3: // OUTI
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOut(true)
		return 16
	case 0xB3: // OTIR
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOut(true)
		c.blockIORepeat()
		return 16
	case 0xAB: // OUTD
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOut(false)
		return 16
	case 0xBB: // OTDR
		if c.checkPrivIO(pc) {
			return 16
		}
		c.blockOut(false)
		c.blockIORepeat()
		return 16
	case 0xB7: // INW HL,(C)
		if c.checkPrivIO(pc) {
			return 16
		}
		c.Regs.HL.SetW(c.ioReadWord(c.Regs.BC.W()))
		return 16
	case 0xBF: // OUTW (C),HL
		if c.checkPrivIO(pc) {
			return 16
		}
		c.ioWriteWord(c.Regs.BC.W(), c.Regs.HL.W())
		return 16

	// --- Z280 MULT/DIV/ADDW/SUBW/CPW family: register-pair rows grouped
	// by 8 (B, C, D, E, H, L, (HL)/SP, A), with MULT/MULTU/DIV/DIVU always
	// operating on the row's own byte register, and MULTW/DIVW and
	// ADDW/SUBW/CPW operating on the rp each adjacent pair of rows shares
	// (BC for B/C, DE for D/E, HL for H/L, SP for (HL)/A). ---
	case 0xC0: // MULT A,B
		c.multSigned(c.Regs.BC.Hi)
		return 12
	case 0xC1: // MULTU A,B
		c.multUnsigned(c.Regs.BC.Hi)
		return 12
	case 0xC2: // MULTW HL,BC
		c.multSignedWord(c.Regs.BC.W())
		return 18
	case 0xC3: // MULTUW HL,BC
		c.multUnsignedWord(c.Regs.BC.W())
		return 18
	case 0xC4: // DIV HL,B
		c.divSigned(c.Regs.BC.Hi, pc)
		return 18
	case 0xC5: // DIVU HL,B
		c.divUnsigned(c.Regs.BC.Hi, pc)
		return 18
	case 0xC6: // ADDW HL,BC
		c.Regs.HL.SetW(c.addw16(c.Regs.HL.W(), c.Regs.BC.W()))
		return 15
	case 0xC7: // CPW HL,BC
		c.subw16(c.Regs.HL.W(), c.Regs.BC.W(), false)
		return 15
	case 0xC8: // MULT A,C
		c.multSigned(c.Regs.BC.Lo)
		return 12
	case 0xC9: // MULTU A,C
		c.multUnsigned(c.Regs.BC.Lo)
		return 12
	case 0xCA: // DIVW DE:HL,BC
		c.divSignedWord(c.Regs.BC.W(), pc)
		return 24
	case 0xCB: // DIVUW DE:HL,BC
		c.divUnsignedWord(c.Regs.BC.W(), pc)
		return 24
	case 0xCC: // DIV HL,C
		c.divSigned(c.Regs.BC.Lo, pc)
		return 18
	case 0xCD: // DIVU HL,C
		c.divUnsigned(c.Regs.BC.Lo, pc)
		return 18
	case 0xCE: // SUBW HL,BC
		c.Regs.HL.SetW(c.subw16(c.Regs.HL.W(), c.Regs.BC.W(), true))
		return 15

	case 0xD0: // MULT A,D
		c.multSigned(c.Regs.DE.Hi)
		return 12
	case 0xD1: // MULTU A,D
		c.multUnsigned(c.Regs.DE.Hi)
		return 12
	case 0xD2: // MULTW HL,DE
		c.multSignedWord(c.Regs.DE.W())
		return 18
	case 0xD3: // MULTUW HL,DE
		c.multUnsignedWord(c.Regs.DE.W())
		return 18
	case 0xD4: // DIV HL,D
		c.divSigned(c.Regs.DE.Hi, pc)
		return 18
	case 0xD5: // DIVU HL,D
		c.divUnsigned(c.Regs.DE.Hi, pc)
		return 18
	case 0xD6: // ADDW HL,DE
		c.Regs.HL.SetW(c.addw16(c.Regs.HL.W(), c.Regs.DE.W()))
		return 15
	case 0xD7: // CPW HL,DE
		c.subw16(c.Regs.HL.W(), c.Regs.DE.W(), false)
		return 15
	case 0xD8: // MULT A,E
		c.multSigned(c.Regs.DE.Lo)
		return 12
	case 0xD9: // MULTU A,E
		c.multUnsigned(c.Regs.DE.Lo)
		return 12
	case 0xDA: // DIVW DE:HL,DE
		c.divSignedWord(c.Regs.DE.W(), pc)
		return 24
	case 0xDB: // DIVUW DE:HL,DE
		c.divUnsignedWord(c.Regs.DE.W(), pc)
		return 24
	case 0xDC: // DIV HL,E
		c.divSigned(c.Regs.DE.Lo, pc)
		return 18
	case 0xDD: // DIVU HL,E
		c.divUnsigned(c.Regs.DE.Lo, pc)
		return 18
	case 0xDE: // SUBW HL,DE
		c.Regs.HL.SetW(c.subw16(c.Regs.HL.W(), c.Regs.DE.W(), true))
		return 15

	case 0xE0: // MULT A,H
		c.multSigned(c.Regs.HL.Hi)
		return 12
	case 0xE1: // MULTU A,H
		c.multUnsigned(c.Regs.HL.Hi)
		return 12
	case 0xE2: // MULTW HL,HL
		c.multSignedWord(c.Regs.HL.W())
		return 18
	case 0xE3: // MULTUW HL,HL
		c.multUnsignedWord(c.Regs.HL.W())
		return 18
	case 0xE4: // DIV HL,H
		c.divSigned(c.Regs.HL.Hi, pc)
		return 18
	case 0xE5: // DIVU HL,H
		c.divUnsigned(c.Regs.HL.Hi, pc)
		return 18
	case 0xE6: // ADDW HL,HL
		c.Regs.HL.SetW(c.addw16(c.Regs.HL.W(), c.Regs.HL.W()))
		return 15
	case 0xE7: // CPW HL,HL
		c.subw16(c.Regs.HL.W(), c.Regs.HL.W(), false)
		return 15
	case 0xE8: // MULT A,L
		c.multSigned(c.Regs.HL.Lo)
		return 12
	case 0xE9: // MULTU A,L
		c.multUnsigned(c.Regs.HL.Lo)
		return 12
	case 0xEA: // DIVW DE:HL,HL
		c.divSignedWord(c.Regs.HL.W(), pc)
		return 24
	case 0xEB: // DIVUW DE:HL,HL
		c.divUnsignedWord(c.Regs.HL.W(), pc)
		return 24
	case 0xEC: // DIV HL,L
		c.divSigned(c.Regs.HL.Lo, pc)
		return 18
	case 0xED: // DIVU HL,L
		c.divUnsigned(c.Regs.HL.Lo, pc)
		return 18
	case 0xEE: // SUBW HL,HL
		c.Regs.HL.SetW(c.subw16(c.Regs.HL.W(), c.Regs.HL.W(), true))
		return 15
	case 0xEF: // EX H,L
		c.Regs.HL.Hi, c.Regs.HL.Lo = c.Regs.HL.Lo, c.Regs.HL.Hi
		return 8

	case 0xF0: // MULT A,(HL)
		c.multSigned(c.ReadByte(c.Regs.HL.W()))
		return 15
	case 0xF1: // MULTU A,(HL)
		c.multUnsigned(c.ReadByte(c.Regs.HL.W()))
		return 15
	case 0xF2: // MULTW HL,SP
		c.multSignedWord(c.SP())
		return 18
	case 0xF3: // MULTUW HL,SP
		c.multUnsignedWord(c.SP())
		return 18
	case 0xF4: // DIV HL,(HL)
		c.divSigned(c.ReadByte(c.Regs.HL.W()), pc)
		return 21
	case 0xF5: // DIVU HL,(HL)
		c.divUnsigned(c.ReadByte(c.Regs.HL.W()), pc)
		return 21
	case 0xF6: // ADDW HL,SP
		c.Regs.HL.SetW(c.addw16(c.Regs.HL.W(), c.SP()))
		return 15
	case 0xF7: // CPW HL,SP
		c.subw16(c.Regs.HL.W(), c.SP(), false)
		return 15
	case 0xF8: // MULT A,A
		c.multSigned(c.a())
		return 12
	case 0xF9: // MULTU A,A
		c.multUnsigned(c.a())
		return 12
	case 0xFA: // DIVW DE:HL,SP
		c.divSignedWord(c.SP(), pc)
		return 24
	case 0xFB: // DIVUW DE:HL,SP
		c.divUnsignedWord(c.SP(), pc)
		return 24
	case 0xFC: // DIV HL,A
		c.divSigned(c.a(), pc)
		return 18
	case 0xFD: // DIVU HL,A
		c.divUnsigned(c.a(), pc)
		return 18
	case 0xFE: // SUBW HL,SP
		c.Regs.HL.SetW(c.subw16(c.Regs.HL.W(), c.SP(), true))
		return 15
	}

	// --- EPU (external processing unit) instructions: all four variants
	// trap unconditionally since no coprocessor is modeled (spec.md section
	// 4.2). Each still consumes whatever addressing-mode bytes the real
	// encoding reads before the trap, so instruction streams after a
	// (skipped) EPU op stay correctly aligned. ---
	switch op {
	case 0x84:
		c.eaSP16()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0x85:
		c.eaSP16()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0x8C:
		c.eaHX()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0x8D:
		c.eaHX()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0x94:
		c.eaHY()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0x95:
		c.eaHY()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0x97:
		c.TakeTrap(TrapEPUF, pc, nil)
		return 8
	case 0x9C:
		c.eaXY()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0x9D:
		c.eaXY()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0x9F:
		c.TakeTrap(TrapEPUI, pc, nil)
		return 8
	case 0xA4:
		c.eaRA()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xA5:
		c.eaRA()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0xA6:
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xA7:
		c.FetchWord()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xAC:
		c.eaX16()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xAD:
		c.eaX16()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0xAE:
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0xAF:
		c.FetchWord()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0xB4:
		c.eaY16()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xB5:
		c.eaY16()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	case 0xBC:
		c.eaH16()
		c.TakeTrap(TrapEPUM, pc, nil)
		return 8
	case 0xBD:
		c.eaH16()
		c.TakeTrap(TrapMEPU, pc, nil)
		return 8
	}

	// Unimplemented ED opcode: treated as a no-op, matching the original
	// core's "illegal_1"/"DB ED" fallthrough.
	return 8
}

// ldaFamily implements the four addressing-mode-row sub-operations shared
// by every extra-addressing-mode LD at the given effective address.
func (c *System) ldaFamily(ea uint16, sub byte) {
	switch sub {
	case 2: // LDA HL,(ea)
		c.Regs.HL.SetW(ea)
	case 3: // LD (ea),A
		c.WriteByte(ea, c.a())
	case 4: // LD HL,(ea)
		c.Regs.HL.SetW(c.ReadWord(ea))
	case 5: // LD (ea),HL
		c.WriteWord(ea, c.Regs.HL.W())
	}
}

// eaSP16/eaH16/eaX16/eaY16/eaHX/eaHY/eaXY/eaRA compute the Z280's extra
// addressing modes (spec.md section 4.1), grounded on z280ops.h's EASP16/
// EAH16/EAX16/EAY16/EAHX/EAHY/EAXY/EARA macros. The (...+w) forms fetch a
// 16-bit displacement; eaRA's displacement is relative to the PC value at
// the displacement word itself, matching EARA's "_PCD + ARG16" ordering
// (PC is captured before the word is fetched, so the addition uses the
// address of the displacement word).
func (c *System) eaSP16() uint16 { return c.SP() + c.FetchWord() }
func (c *System) eaH16() uint16 { return c.Regs.HL.W() + c.FetchWord() }
func (c *System) eaX16() uint16 { return c.Regs.IX.W() + c.FetchWord() }
func (c *System) eaY16() uint16 { return c.Regs.IY.W() + c.FetchWord() }
func (c *System) eaHX() uint16  { return c.Regs.HL.W() + c.Regs.IX.W() }
func (c *System) eaHY() uint16  { return c.Regs.HL.W() + c.Regs.IY.W() }
func (c *System) eaXY() uint16  { return c.Regs.IX.W() + c.Regs.IY.W() }
func (c *System) eaRA() uint16 {
	base := c.Regs.PC
	return base + c.FetchWord()
}

func (c *System) setLDAFlags(v byte) {
	f := SZPTable[v] & ^byte(FlagP)
	if c.Regs.IFF2 {
		f |= FlagP
	}
	c.setF(f | c.f()&FlagC)
}

func (c *System) rrd() {
	addr := c.Regs.HL.W()
	m := c.ReadByte(addr)
	a := c.a()
	c.setA(a&0xF0 | m&0x0F)
	c.WriteByte(addr, m>>4|a<<4)
	c.setF(SZPTable[c.a()] | c.f()&FlagC)
}

func (c *System) rld() {
	addr := c.Regs.HL.W()
	m := c.ReadByte(addr)
	a := c.a()
	c.setA(a&0xF0 | m>>4)
	c.WriteByte(addr, m<<4|a&0x0F)
	c.setF(SZPTable[c.a()] | c.f()&FlagC)
}

// ldudLoad/ldudStore implement LDUD/LDUP A,(HL) and (HL),A: from system
// mode, access the user address space by forcing the user PDR bank.
// Failure never traps; it sets Carry and folds the offending PDR's V/WP
// bits into Z/V (spec.md section 4.1).
func (c *System) ldudLoad() {
	phys, ok, v, wp := c.TranslateUserForced(c.Regs.HL.W(), false)
	if !ok {
		c.reportLDUDFailure(v, wp)
		return
	}
	c.setA(c.Mem.ReadByte(phys))
	c.setF(c.f() &^ FlagC)
}

func (c *System) ldudStore() {
	phys, ok, v, wp := c.TranslateUserForced(c.Regs.HL.W(), true)
	if !ok {
		c.reportLDUDFailure(v, wp)
		return
	}
	c.Mem.WriteByte(phys, c.a())
	c.setF(c.f() &^ FlagC)
}

func (c *System) reportLDUDFailure(v, wp bool) {
	f := c.f() | FlagC
	if v {
		f |= FlagZ
	} else {
		f &^= FlagZ
	}
	if wp {
		f |= FlagV
	} else {
		f &^= FlagV
	}
	c.setF(f)
}
