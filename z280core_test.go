package z280core_test

import "z280core"

// flatMemory is a trivial 1 MiB RAM backing the physical address space for
// tests. Raw and plain accesses alias the same bytes; with the MMU disabled
// (every test except the ACCV one) logical addresses map to it unchanged
// (spec.md section 4.1: disabled mode is identity-mapped).
type flatMemory struct {
	mem [1 << 20]byte
}

func (m *flatMemory) ReadByte(addr uint32) byte       { return m.mem[addr&0xFFFFF] }
func (m *flatMemory) WriteByte(addr uint32, v byte)   { m.mem[addr&0xFFFFF] = v }
func (m *flatMemory) ReadRawByte(addr uint32) byte    { return m.mem[addr&0xFFFFF] }
func (m *flatMemory) ReadWord(addr uint32) uint16 {
	return uint16(m.ReadByte(addr)) | uint16(m.ReadByte(addr+1))<<8
}
func (m *flatMemory) WriteWord(addr uint32, v uint16) {
	m.WriteByte(addr, byte(v))
	m.WriteByte(addr+1, byte(v>>8))
}
func (m *flatMemory) ReadRawWord(addr uint32) uint16 { return m.ReadWord(addr) }

func (m *flatMemory) loadAt(addr uint16, code []byte) {
	for i, b := range code {
		m.mem[int(addr)+i] = b
	}
}

// flatIO is a trivial 64K-port I/O space that newTestSystem installs.
type flatIO struct {
	ports [1 << 16]byte
}

func (io *flatIO) ReadByte(addr uint32) byte     { return io.ports[addr&0xFFFF] }
func (io *flatIO) WriteByte(addr uint32, v byte) { io.ports[addr&0xFFFF] = v }
func (io *flatIO) ReadWord(addr uint32) uint16 {
	return uint16(io.ReadByte(addr)) | uint16(io.ReadByte(addr+1))<<8
}
func (io *flatIO) WriteWord(addr uint32, v uint16) {
	io.WriteByte(addr, byte(v))
	io.WriteByte(addr+1, byte(v>>8))
}

func newTestSystem() (*z280core.System, *flatMemory) {
	mem := &flatMemory{}
	io := &flatIO{}
	c, err := z280core.New(mem, z280core.WithIOSpace(io))
	if err != nil {
		panic(err)
	}
	return c, mem
}
