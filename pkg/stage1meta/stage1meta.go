// Package stage1meta holds the stage-1 load/jump contract (C3, spec
// §4.3/SPEC_FULL §3): the fixed addresses every stage-1 assembly source
// must honor. No other package imports it; pkg/image and the build
// command carry the same values as their own literals. Stage-1 itself is BIOS-loaded raw machine code
// this module cannot execute (SPEC_FULL §0); this package is the
// single source of truth other Go packages and the reference assembly
// agree on.
//
// Grounded on original_source's bootloader/src/bios_boot/stage-1/src/unreal.rs
// (enter_stage2's far jump to stage-2's entry point) and mbr.rs/fat.rs
// (the boot-partition lookup stage-1 performs before that jump).
package stage1meta

// LoadAddress is the fixed real-mode address the BIOS loads the MBR's
// first sector (and therefore stage-1's boot code) to.
const LoadAddress uint32 = 0x7C00

// StackTop is the initial real-mode stack pointer stage-1 sets up before
// doing any disk I/O, chosen to sit safely below LoadAddress.
const StackTop uint32 = 0x7C00

// MaxSize is the largest a stage-1 flat binary may be: the MBR's boot-code
// area, one sector minus the disk signature (4 bytes), the reserved word
// (2), the partition table (64) and the boot signature (2).
const MaxSize = 512 - 4 - 2 - 64 - 2

// Contract describes where stage-1 hands off to stage-2, resolved from
// the on-disk layout of a specific assembled image (pkg/image.Layout).
type Contract struct {
	// Stage2LoadLBA is the first sector stage-1 must read stage-2's
	// blob from (pkg/image.Layout.Stage2StartLBA).
	Stage2LoadLBA uint32
	// Stage2LoadAddress is the real-mode segment:offset (flattened)
	// stage-1 loads stage-2 to before jumping.
	Stage2LoadAddress uint32
	// Stage2Sectors is how many sectors to read.
	Stage2Sectors int
	// BootDriveID is the BIOS drive number (DL at stage-1 entry) to
	// thread through to stage-2's BootInfo (spec §4.6).
	BootDriveID uint8
}

// DefaultStage2LoadAddress is the conventional flat address stage-2 is
// loaded to, chosen above the 0x7C00-0x7E00 MBR region and below the
// 0x90000 real-mode usable ceiling most BIOSes guarantee free.
const DefaultStage2LoadAddress uint32 = 0x8000

// NewContract builds a Contract from an assembled image's layout and the
// BIOS-reported boot drive.
func NewContract(stage2LBA uint32, stage2Sectors int, bootDriveID uint8) Contract {
	return Contract{
		Stage2LoadLBA:     stage2LBA,
		Stage2LoadAddress: DefaultStage2LoadAddress,
		Stage2Sectors:     stage2Sectors,
		BootDriveID:       bootDriveID,
	}
}
