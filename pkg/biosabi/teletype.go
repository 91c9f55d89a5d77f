package biosabi

// TeletypeWrite writes one character to the active video page via the
// int 0x10, AH=0x0E teletype service (spec §4.1). Used before any
// console/UART sink exists — the earliest possible boot-progress
// indicator.
func TeletypeWrite(fw Firmware, ch byte) {
	fw.Int10hTeletype(ch)
}
