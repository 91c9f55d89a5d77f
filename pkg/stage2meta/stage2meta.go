// Package stage2meta holds the stage-2 load/jump contract and resource
// bounds (C4, spec §4.4/SPEC_FULL §3): the E820 entry-count cap, stage-3's
// load address, the default kernel placement, and the handoff record
// stage-2 hands to stage-3's far jump. The GDT shape itself lives in
// pkg/gdt, VBE mode-pick in pkg/vesa, and config parsing in pkg/bootcfg;
// this package is the glue recording how those pieces' outputs compose
// into one contract, the way stage-1's own contract lives in
// pkg/stage1meta.
//
// Grounded on original_source's bootloader/src/bios_boot/stage-1/src/memory_detection.rs
// (E820 iteration cap) and unreal.rs's enter_stage2 (far jump to the
// protected-mode entry point with the BootInfo pointer alongside it).
package stage2meta

// MaxE820Entries is the cap on the E820 entries stage-2 collects into its
// own fixed-size on-stack buffer (spec §4.4 step 1: "a small, fixed entry
// count to bound stack usage... 128 entries is sufficient"). No Go code
// in this module applies it.
const MaxE820Entries = 128

// DefaultStage3LoadAddress is where stage-2 places the stage-3 blob
// before the 32-bit far jump, chosen well below the 1 MiB boundary so
// stage-3's own protected-mode code can still address it without paging.
const DefaultStage3LoadAddress uint32 = 0x20000

// Handoff is what stage-2 passes to stage-3 across the far jump: a code
// selector and the BootInfo pointer stage-3 threads through to the
// kernel entry (spec §4.4/§4.6).
type Handoff struct {
	Stage3EntryPoint uint32
	BootInfoPtr      uint32
	CodeSelector     uint16
	DataSelector     uint16
}

// NewHandoff builds a Handoff for the given stage-3 blob load address
// (its entry point, by convention, equal to its load address: stage-3 is
// a flat binary with no ELF header of its own) and BootInfo location.
func NewHandoff(stage3LoadAddr, bootInfoPtr uint32, codeSelector, dataSelector uint16) Handoff {
	return Handoff{
		Stage3EntryPoint: stage3LoadAddr,
		BootInfoPtr:      bootInfoPtr,
		CodeSelector:     codeSelector,
		DataSelector:     dataSelector,
	}
}
