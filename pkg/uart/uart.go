// Package uart implements the 16550-compatible UART sink for the C8
// debug logger: port probing by loopback, divisor-latch baud setup, and
// blocking transmit-empty writes.
//
// Register offsets and the COM port table are grounded on
// original_source's crates/serial/src/registers.rs; the loopback probe
// and blocking-write policy follow spec §4.8.
package uart

import "fmt"

// Well-known COM port base addresses on x86, in probe order.
var CandidatePorts = []uint16{0x3F8, 0x2F8, 0x3E8, 0x2E8, 0x5F8, 0x4F8, 0x5E8, 0x4E8}

// Register offsets from the UART base port, per the 16550 layout.
const (
	OffsetData                  = 0 // R: receive buffer, W: transmit buffer (DLAB=0)
	OffsetDivisorLSB            = 0 // RW: divisor latch LSB (DLAB=1)
	OffsetInterruptEnable       = 1 // RW (DLAB=0)
	OffsetDivisorMSB            = 1 // RW: divisor latch MSB (DLAB=1)
	OffsetInterruptIdentFIFOCtl = 2 // R: interrupt ident, W: FIFO control
	OffsetLineControl           = 3 // RW; bit7 is DLAB
	OffsetModemControl          = 4 // RW
	OffsetLineStatus            = 5 // R
	OffsetScratch               = 7 // RW
)

// Line Control Register bits.
const (
	LineControlWordLength8 = 0x03
	LineControlDLAB        = 0x80
)

// Modem Control Register bits.
const (
	ModemControlDTR      = 0x01
	ModemControlRTS      = 0x02
	ModemControlOut2     = 0x08
	ModemControlLoopback = 0x10
)

// Line Status Register bits.
const (
	LineStatusDataReady       = 0x01
	LineStatusTransmitterIdle = 0x20
)

const (
	baseClockHz  = 115200
	fifoEnable   = 0xC7 // enable FIFO, clear, 14-byte threshold
	probeByteOne = 0xAE
)

// PortIO abstracts x86 port-mapped I/O (the `in`/`out` instructions). A
// real freestanding build backs this with a small assembly stub (built
// out-of-band per SPEC_FULL.md §0); tests use a software fake so the
// probe/write logic is exercised without real hardware.
type PortIO interface {
	In(port uint16) byte
	Out(port uint16, val byte)
}

// UART drives a single 16550-compatible serial port.
type UART struct {
	io   PortIO
	base uint16
}

// Probe scans CandidatePorts in order, sending three distinct bytes in
// loopback mode on each and requiring bitwise-exact readback (spec §4.8).
// The first port to pass is kept and returned, initialized at baud.
func Probe(io PortIO, baud uint32) (*UART, error) {
	for _, base := range CandidatePorts {
		if probeOne(io, base) {
			u := &UART{io: io, base: base}
			u.configure(baud)
			return u, nil
		}
	}
	return nil, fmt.Errorf("uart: no working port found among %d candidates", len(CandidatePorts))
}

func probeOne(io PortIO, base uint16) bool {
	// Disable interrupts on the UART under test before probing.
	io.Out(base+OffsetInterruptEnable, 0x00)
	io.Out(base+OffsetModemControl, ModemControlLoopback)

	for _, b := range []byte{probeByteOne, 0x55, 0xA3} {
		io.Out(base+OffsetData, b)
		if io.In(base+OffsetData) != b {
			io.Out(base+OffsetModemControl, 0x00)
			return false
		}
	}
	io.Out(base+OffsetModemControl, 0x00)
	return true
}

func (u *UART) configure(baud uint32) {
	if baud == 0 {
		baud = 38400
	}
	divisor := uint16(baseClockHz / baud)

	u.io.Out(u.base+OffsetInterruptEnable, 0x00)
	u.io.Out(u.base+OffsetLineControl, LineControlDLAB)
	u.io.Out(u.base+OffsetDivisorLSB, byte(divisor&0xFF))
	u.io.Out(u.base+OffsetDivisorMSB, byte(divisor>>8))
	u.io.Out(u.base+OffsetLineControl, LineControlWordLength8)
	u.io.Out(u.base+OffsetInterruptIdentFIFOCtl, fifoEnable)
	u.io.Out(u.base+OffsetModemControl, ModemControlDTR|ModemControlRTS|ModemControlOut2)
}

func (u *UART) transmitterEmpty() bool {
	return u.io.In(u.base+OffsetLineStatus)&LineStatusTransmitterIdle != 0
}

// WriteByte blocks until the transmitter is idle, then sends b.
func (u *UART) WriteByte(b byte) {
	for !u.transmitterEmpty() {
	}
	u.io.Out(u.base+OffsetData, b)
}

// WriteLine implements blog.Sink: it writes every byte of line followed
// by a newline, blocking on transmitter-empty for each (spec §4.8).
func (u *UART) WriteLine(line string) error {
	for i := 0; i < len(line); i++ {
		u.WriteByte(line[i])
	}
	u.WriteByte('\r')
	u.WriteByte('\n')
	return nil
}
