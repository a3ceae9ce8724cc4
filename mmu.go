package z280core

import "z280core/hypervisor"

// MMU translation modes, selected by the MMU master control register.
const (
	MMUDisabled = iota
	MMUEnabledNonSeparate
	MMUEnabledSeparate
)

// AccessKind distinguishes the three kinds of logical access the MMU can
// translate (spec.md section 4.1); LDUD/LDUP's forced-user accesses use
// these same kinds through TranslateForced.
type AccessKind int

const (
	AccessFetch AccessKind = iota
	AccessRead
	AccessWrite
)

// MMU holds the page-descriptor array and master control state. 32 PDRs:
// indices 0-15 are the user bank, 16-31 the system bank.
type MMU struct {
	Mode byte
	PFI  byte // page-fault index, updated on ACCV
	PDRP byte // page-descriptor-register pointer, auto-incremented on BMP access
	PDR  [32]uint16
}

func (m *MMU) reset() {
	*m = MMU{}
}

// MMU master-control register field layout, packed into a single byte at
// internal I/O offset 0 (Z280_MMUMCR): bits 0-1 select the translation
// mode, bits 2-6 mirror the page-fault index (Z280_PFI is documented as
// living "in the MMU master-control register" rather than as its own
// port). This packing is an Open Question decision: the original core's
// header names the port but not its bit layout.
const (
	mmuMCRModeMask byte = 0x03
	mmuMCRPFIShift      = 2
	mmuMCRPFIMask  byte = 0x7C
)

func (m *MMU) mcr() byte {
	return m.Mode&mmuMCRModeMask | (m.PFI<<mmuMCRPFIShift)&mmuMCRPFIMask
}

func (m *MMU) setMCR(v byte) {
	m.Mode = v & mmuMCRModeMask
	m.PFI = (v & mmuMCRPFIMask) >> mmuMCRPFIShift
}

// ReadRegister/WriteRegister expose the 16-byte internal I/O range using
// the original core's port layout: MMUMCR=0, PDRP=1, IP (invalidation
// port)=2, BMP (block-move port)=4, DSP (descriptor-select port)=5. BMP
// and DSP together address the low and high byte of PDR[PDRP]; only a BMP
// touch auto-increments PDRP (spec.md section 3 invariant: "PDRP
// auto-increments on block-move-port access in both byte and word modes"),
// so a 16-bit-bus transfer spanning both ports advances exactly once.
func (m *MMU) ReadRegister(offset uint8) byte {
	switch offset {
	case 0:
		return m.mcr()
	case 1:
		return m.PDRP
	case 4:
		v := byte(m.PDR[m.pdrpIndex()])
		m.PDRP = (m.PDRP + 1) % 32
		return v
	case 5:
		return byte(m.PDR[m.pdrpIndex()] >> 8)
	default:
		return 0xFF
	}
}

func (m *MMU) WriteRegister(offset uint8, v byte) {
	switch offset {
	case 0:
		m.setMCR(v)
	case 1:
		m.PDRP = v % 32
	case 2: // invalidation port: clear V on the addressed PDR
		m.PDR[int(v)%32] &^= hypervisor.PDR_V
	case 4:
		idx := m.pdrpIndex()
		m.PDR[idx] = m.PDR[idx]&0xFF00 | uint16(v)
		m.PDRP = (m.PDRP + 1) % 32
	case 5:
		idx := m.pdrpIndex()
		m.PDR[idx] = m.PDR[idx]&0x00FF | uint16(v)<<8
	}
}

func (m *MMU) pdrpIndex() int { return int(m.PDRP) % 32 }

// Translate converts a 16-bit logical address to a physical address under
// the given access kind and privilege mode. ok is false on a protection
// violation (V=0, or write with WP=1); pdrIndex identifies the PDR that
// was consulted, for PFI reporting.
func (m *MMU) Translate(logical uint16, kind AccessKind, user bool) (phys uint32, pdrIndex int, ok bool) {
	return m.translateBank(logical, kind, user)
}

// TranslateForced is Translate with the user/system bank selection forced
// independent of the current privilege mode, used by LDUD/LDUP (spec.md
// section 4.1: "from system mode, access the user address space by
// forcing the user PDR bank").
func (m *MMU) TranslateForced(logical uint16, kind AccessKind, forceUserBank bool) (phys uint32, pdrIndex int, ok bool) {
	return m.translateBank(logical, kind, forceUserBank)
}

func (m *MMU) translateBank(logical uint16, kind AccessKind, forcedUser bool) (phys uint32, pdrIndex int, ok bool) {
	if m.Mode == MMUDisabled {
		return uint32(logical), -1, true
	}

	switch m.Mode {
	case MMUEnabledNonSeparate:
		pageIndex := int(logical >> 12)
		offset := uint32(logical & 0x0FFF)
		bank := 16
		if forcedUser {
			bank = 0
		}
		pdrIndex = bank + pageIndex
		pdr := m.PDR[pdrIndex]
		if !hypervisor.Valid(pdr) || (kind == AccessWrite && hypervisor.WriteProtected(pdr)) {
			return 0, pdrIndex, false
		}
		if kind == AccessWrite {
			m.PDR[pdrIndex] = hypervisor.WithModified(pdr)
		}
		phys = uint32(hypervisor.PFA(pdr))<<8 + offset
		return phys, pdrIndex, true

	default: // MMUEnabledSeparate
		pageIndex := int(logical>>13) & 0x7
		offset := uint32(logical & 0x1FFF)
		bank := 16
		if forcedUser {
			bank = 0
		}
		half := 0
		if kind == AccessFetch {
			half = 8
		}
		pdrIndex = bank + half + pageIndex
		pdr := m.PDR[pdrIndex]
		if !hypervisor.Valid(pdr) || (kind == AccessWrite && hypervisor.WriteProtected(pdr)) {
			return 0, pdrIndex, false
		}
		if kind == AccessWrite {
			m.PDR[pdrIndex] = hypervisor.WithModified(pdr)
		}
		pfa := hypervisor.PFA(pdr) &^ 1 // LSB of PFA treated as zero in separate mode
		phys = uint32(pfa)<<8 + offset
		return phys, pdrIndex, true
	}
}
