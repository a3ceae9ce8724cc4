package z280core

// InstallDaisyChain replaces the CPU's daisy chain with the given ordered
// list of peripherals (highest priority first), mirroring the host-owned
// device table design in devices/iobus.go's registration idiom, but keyed
// by chain order rather than address range.
func (c *System) InstallDaisyChain(devices []DaisyDevice) {
	c.Intr.daisy = devices
}
