// Package build implements ignisctl's `build` subcommand (C7, spec §4.7):
// compile each stage with its per-target config, strip to a flat binary,
// assemble the FAT partition holding the kernel/stage-3/config payloads,
// write the disk image, and stamp the MBR.
package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
	"github.com/ignisboot/ignis/pkg/bootcfg"
	"github.com/ignisboot/ignis/pkg/fat"
	"github.com/ignisboot/ignis/pkg/image"
	"github.com/ignisboot/ignis/pkg/payload"
	"github.com/ignisboot/ignis/pkg/stagebuild"
)

var _ commands.Command = (*Command)(nil)

// Command implements `ignisctl build`.
type Command struct {
	Bootloader string `long:"bootloader" choice:"bios" default:"bios" description:"target firmware interface; only BIOS is supported (spec Non-goal: no UEFI path)"`
	Debug      bool   `long:"debug" description:"build stages with debug tracing enabled"`

	StageSrcDir string `long:"stage-src-dir" default:"stages/src" description:"directory containing stage1.asm/stage2.asm/stage3.asm"`
	OutDir      string `long:"out" default:"build" description:"directory to write build artifacts and the final disk image to"`
	DiskSig     uint32 `long:"disk-signature" default:"0" description:"MBR disk signature to embed"`

	// KernelELF points at the externally-built 64-bit kernel (spec's own
	// Non-goal: "the kernel proper beyond its entry contract" is not
	// this repo's concern). When the path doesn't exist, a tiny
	// placeholder is embedded instead and a warning is printed, so the
	// bootloader half of the pipeline can still be built and booted on
	// its own.
	KernelELF string `long:"kernel-elf" default:"kernel.elf" description:"path to the externally-built kernel ELF to place at /kernel.elf on the FAT partition"`

	// Compress selects a pkg/payload codec to compress the kernel blob
	// with before it is placed on FAT; "none" stores it as-is. The
	// choice is recorded in config.cfg's PAYLOAD_CODEC key (pkg/bootcfg)
	// so stage-2 knows how to decode it.
	Compress string `long:"compress" default:"none" description:"compress the kernel payload before placing it on FAT: \"none\" or a pkg/payload codec name (xz, lz4, zstd)"`
}

// ShortDescription implements commands.Command.
func (cmd *Command) ShortDescription() string {
	return "compiles the boot stages and assembles a bootable disk image"
}

// LongDescription implements commands.Command.
func (cmd *Command) LongDescription() string {
	return "Compiles stage-1/2/3 (via an external nasm/ld toolchain when present, " +
		"falling back to a minimal stub emitter otherwise), assembles a FAT partition " +
		"holding the kernel, stage-3, and a generated config.cfg, writes the MBR, and " +
		"reports the image layout."
}

// Execute implements flags.Commander.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("build takes no positional arguments")}
	}
	if cmd.Bootloader != "bios" {
		return commands.ErrArgs{Err: fmt.Errorf("unsupported bootloader interface %q", cmd.Bootloader)}
	}
	var codec payload.Compressor
	if cmd.Compress != "none" {
		c, err := payload.ByName(cmd.Compress)
		if err != nil {
			return commands.ErrArgs{Err: fmt.Errorf("--compress: %w (known codecs: %v)", err, payload.Names())}
		}
		codec = c
	}

	if err := os.MkdirAll(cmd.OutDir, 0o755); err != nil {
		return fmt.Errorf("build: creating output directory: %w", err)
	}

	tc := stagebuild.DefaultToolchain
	var errs *multierror.Error

	stage1Path, err := stagebuild.Assemble(tc, stagebuild.StageSpec{
		Name:       "stage1",
		SourcePath: filepath.Join(cmd.StageSrcDir, "stage1.asm"),
		MaxSize:    440, // must fit the MBR boot-code region (spec §3)
	}, cmd.OutDir)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("stage1: %w", err))
	}

	stage2Path, err := stagebuild.Assemble(tc, stagebuild.StageSpec{
		Name:       "stage2",
		SourcePath: filepath.Join(cmd.StageSrcDir, "stage2.asm"),
	}, cmd.OutDir)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("stage2: %w", err))
	}

	stage3Path, err := stagebuild.Assemble(tc, stagebuild.StageSpec{
		Name:       "stage3",
		SourcePath: filepath.Join(cmd.StageSrcDir, "stage3.asm"),
	}, cmd.OutDir)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("stage3: %w", err))
	}
	if errs != nil {
		return errs.ErrorOrNil()
	}

	stage1Code, err := os.ReadFile(stage1Path)
	if err != nil {
		return fmt.Errorf("build: reading stage1 blob: %w", err)
	}
	stage2Blob, err := readSectorAligned(stage2Path)
	if err != nil {
		return fmt.Errorf("build: reading stage2 blob: %w", err)
	}
	stage3Blob, err := os.ReadFile(stage3Path)
	if err != nil {
		return fmt.Errorf("build: reading stage3 blob: %w", err)
	}

	kernelBlob, err := os.ReadFile(cmd.KernelELF)
	if err != nil {
		fmt.Printf("ignisctl: warning: no kernel found at %s, embedding a placeholder (%v)\n", cmd.KernelELF, err)
		kernelBlob = []byte("ignisctl: placeholder kernel, no real kernel.elf was supplied\n")
	}

	cfg := bootcfg.Config{
		KernelPath:    bootcfg.DefaultKernelPath,
		KernelAddress: bootcfg.DefaultKernelAddress,
		Stage3Path:    bootcfg.DefaultStage3Path,
		VideoWidth:    bootcfg.DefaultVideoWidth,
		VideoHeight:   bootcfg.DefaultVideoHeight,
	}
	if codec != nil {
		encoded, err := codec.Encode(kernelBlob)
		if err != nil {
			return fmt.Errorf("build: compressing kernel payload with %s: %w", codec.Name(), err)
		}
		kernelBlob = encoded
		cfg.PayloadCodec = codec.Name()
	}

	fatImage, err := fat.BuildVolume([]fat.File{
		{Name: "KERNEL.ELF", Data: kernelBlob},
		{Name: "STAGE3.BIN", Data: stage3Blob},
		{Name: "CONFIG.CFG", Data: []byte(cfg.Render())},
	}, fat.WriteOptions{})
	if err != nil {
		return fmt.Errorf("build: assembling FAT partition: %w", err)
	}

	builder := image.Builder{DiskSig: cmd.DiskSig, Stage2: stage2Blob, FATImage: fatImage}
	copy(builder.Stage1Code[:], stage1Code)

	diskImage, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build: assembling disk image: %w", err)
	}

	outPath := filepath.Join(cmd.OutDir, "disk.img")
	if err := os.WriteFile(outPath, diskImage, 0o644); err != nil {
		return fmt.Errorf("build: writing disk image: %w", err)
	}

	fmt.Printf("ignisctl: wrote %s (%s) — %s\n", outPath, humanize.Bytes(uint64(len(diskImage))),
		image.SummaryLine(len(stage2Blob), len(fatImage)))
	return nil
}

// readSectorAligned reads a file and pads it with zero bytes up to the
// next 512-byte boundary, since the stage-2 blob must occupy a whole
// number of sectors (spec §6).
func readSectorAligned(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	const sectorSize = 512
	if rem := len(data) % sectorSize; rem != 0 {
		padded := make([]byte, len(data)+(sectorSize-rem))
		copy(padded, data)
		data = padded
	}
	return data, nil
}
