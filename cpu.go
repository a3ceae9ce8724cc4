package z280core

import (
	"log"

	"z280core/devices"
)

// System is one Z280 CPU instance: register file, control registers, MMU,
// on-chip peripherals, and the host bindings that back its two address
// spaces. There is deliberately no mutex here (unlike the teacher's
// RWMutex-guarded CPU struct): spec.md section 5 mandates a strictly
// single-threaded, cooperative execution model with no concurrent access
// to CPU state, so carrying a lock would just be dead weight (see
// DESIGN.md, Construction / execution loop).
type System struct {
	Regs Registers
	CR   ControlRegs
	MMU  MMU
	Intr InterruptState
	CT   CounterTimers
	UART UART
	DMA  DMAEngine
	RRR  RefreshController

	Mem MemorySpace
	IO  IOSpace

	internalIO *devices.InternalBus

	// Debug gates diagnostic log.Printf calls, following the teacher's
	// VirtualMachine.Debug/VCPU ticker convention.
	Debug bool

	// lastEA/lastPDR record the most recent address translation, for ACCV
	// reporting and the debugger-facing Translate call.
	lastEA  uint32
	lastPDR int

	// ctAccum is the sub-tick remainder left over when an instruction's
	// cycle cost isn't a multiple of 4 (the counter/timer input divisor).
	ctAccum int

	// useIndex/indexDisp select which base register the (HL) operand slot
	// resolves against for the instruction currently executing (operands.go).
	useIndex  byte
	indexDisp int8

	// budget records the T-state budget passed to the current Execute call.
	budget int

	btiInit BTIInitFunc
	bus16   bool
}

// Option configures a System at construction time, following retrogolib's
// z80.New(memory *Memory, options ...Option) functional-options pattern,
// generalized to the Z280's richer create(...) signature (spec.md section
// 6).
type Option func(*System)

// WithIOSpace supplies the host's external I/O address space.
func WithIOSpace(io IOSpace) Option {
	return func(c *System) { c.IO = io }
}

// WithDebug turns on diagnostic logging.
func WithDebug(debug bool) Option {
	return func(c *System) { c.Debug = debug }
}

// WithIRQAcknowledger supplies the host's IRQ-acknowledge callback for IM 0
// and IM 2 vectored external interrupts.
func WithIRQAcknowledger(ack IRQAcknowledger) Option {
	return func(c *System) { c.Intr.irqAck = ack }
}

// WithDaisyChain installs an ordered peripheral daisy chain.
func WithDaisyChain(devices []DaisyDevice) Option {
	return func(c *System) { c.Intr.daisy = devices }
}

// WithBTIInit supplies the callback that furnishes the Bus Timing and
// Initialization register's reset-time value.
func WithBTIInit(f BTIInitFunc) Option {
	return func(c *System) { c.btiInit = f }
}

// WithBus16 selects a 16-bit external memory bus (aligned word accesses
// become single host transfers); the default is 8-bit.
func WithBus16(bus16 bool) Option {
	return func(c *System) { c.bus16 = bus16 }
}

// WithUARTLink attaches the host's transmit/receive byte link.
func WithUARTLink(link UARTLink) Option {
	return func(c *System) { c.UART.link = link }
}

// New creates a Z280 System bound to the given memory space, applying any
// options. mem must not be nil; an IOSpace may be supplied later via
// WithIOSpace but Execute will panic on an uninstrumented I/O access if
// none is ever provided (mirroring z80.New's nil-memory guard, generalized
// to this core's two address spaces).
func New(mem MemorySpace, opts ...Option) (*System, error) {
	if mem == nil {
		return nil, ErrNilMemorySpace
	}
	c := &System{Mem: mem, lastPDR: -1}
	for _, opt := range opts {
		opt(c)
	}
	c.buildInternalBus()
	c.Reset()
	return c, nil
}

// Reset clears all programmer-visible state, loads BTI from the init
// callback, resets the UART, sets CCR to its default, and reinitialises
// interrupt/DMA state (spec.md section 3 Lifecycle).
func (c *System) Reset() {
	c.Regs = Registers{}
	c.CR.reset()
	c.MMU.reset()
	c.CT.reset()
	c.UART.reset()
	c.DMA.reset()
	c.RRR.reset()
	c.Intr.pending = [numInterruptSources]bool{}
	c.Intr.nmiLine, c.Intr.nmiEdge = false, false
	c.Intr.irqLine = [3]bool{}
	c.Intr.afterEI = false
	c.lastEA, c.lastPDR = 0, -1
	c.ctAccum = 0

	if c.btiInit != nil {
		c.CR.BTI = c.btiInit()
	}
}

// Execute runs up to budget T-states and returns the number actually
// consumed (which may exceed budget slightly, since an in-progress
// instruction always runs to completion). Each iteration: (1) one DMA
// step, (2) interrupt service, (3) fetch/decode/execute with ACCV
// recovery, (4) counter/timer tick advancement (spec.md section 2 data
// flow, section 5 ordering guarantees).
func (c *System) Execute(budget int) int {
	c.budget = budget
	spent := 0

	for spent < budget {
		dmaCycles := c.dmaStep()
		spent += dmaCycles

		c.serviceInterrupts()

		if c.Regs.Halted {
			spent += 3
			c.tickTimers(3)
			continue
		}

		used := c.step()
		spent += used
		c.tickTimers(used)
	}

	return spent
}

// step fetches, decodes, and executes exactly one instruction, recovering
// from an ACCV abort by building the trap frame at the faulting PC. It
// returns the instruction's cycle cost.
func (c *System) step() (cycles int) {
	// pc is the address of the instruction's first byte; an ACCV raised by
	// any access the instruction makes is framed at this address.
	pc := c.Regs.PC
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(accvAbort); !ok {
				panic(r)
			}
			if c.Debug {
				log.Printf("z280core: ACCV at pc=0x%04x (pdr=%d)", pc, c.lastPDR)
			}
			c.TakeTrap(TrapACCV, pc, nil)
			cycles = 12
		}
	}()

	// The after-EI shadow defers interrupt acceptance for exactly one
	// instruction; serviceInterrupts already consulted it this iteration,
	// so it is cleared here before the instruction runs.
	c.Intr.afterEI = false

	opcode := c.FetchByte()
	cycles = c.dispatchRoot(opcode, pc)
	return cycles
}
