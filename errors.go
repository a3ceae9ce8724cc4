package z280core

import "errors"

// Sentinel errors for host-facing construction and configuration mistakes,
// in the style of retrogolib's z80.ErrNilMemory / ErrInvalidInterruptMode:
// plain package-level errors.New values, never wrapped into the guest's own
// trap machinery.
var (
	// ErrNilMemorySpace is returned by New when no MemorySpace is supplied.
	ErrNilMemorySpace = errors.New("z280core: memory space must not be nil")
	// ErrNilIOSpace is declared but New never returns it: an IOSpace is
	// optional (WithIOSpace).
	ErrNilIOSpace = errors.New("z280core: io space must not be nil")
	// ErrInvalidRegisterWidth is declared but not returned; the
	// control-register accessors report any unknown register number with
	// ErrUnknownControlRegister.
	ErrInvalidRegisterWidth = errors.New("z280core: invalid control register number")
	// ErrUnknownControlRegister is returned by ReadControlWord,
	// WriteControlWord, ReadControlByte and WriteControlByte when the
	// register number does not name one of the defined control registers.
	ErrUnknownControlRegister = errors.New("z280core: unknown control register")
	// ErrUnmappedInternalIO is returned by System.Translate when the MMU
	// rejects the logical address.
	ErrUnmappedInternalIO = errors.New("z280core: unmapped internal io")
)
