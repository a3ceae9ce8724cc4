// Package z280core implements a cycle-approximate interpreter for the
// Zilog Z280 microprocessor, including its on-chip MMU, counter/timer
// units, UART, DMA engine, and interrupt/trap logic. The host embeds a
// System by supplying a memory address space and an I/O address space
// (host.go), then drives emulation by calling Execute with a budget of
// T-states.
package z280core
