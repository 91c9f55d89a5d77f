// Package bootcfg parses the stage-2 boot configuration file: ASCII
// KEY=VALUE lines, '#' comments, blank lines ignored (spec §4.4).
//
// Grounded on original_source's bootloader/src/bios_boot/stage-1/src/config_parser.rs
// (same key set, same default values, same KERNEL_BEGIN threshold rule),
// rewritten in the teacher's (fiano) style of a flat parse function over
// split lines plus a validated-defaults accessor struct.
package bootcfg

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	keyKernelELF    = "KERNEL_ELF"
	keyKernelBegin  = "KERNEL_BEGIN"
	keyNextStageBin = "NEXT_STAGE_BIN"
	keyVideo        = "VIDEO"
	keyPayloadCodec = "PAYLOAD_CODEC"
)

// Defaults match original_source's BootloaderConfig defaults exactly,
// except NEXT_STAGE_BIN: the original's default names the stage-3 blob
// it hands control to (spec §4.4's documented default), not a stage-2
// path — stage-2 is the process reading this file, not a path inside it.
const (
	DefaultKernelPath     = "/kernel.elf"
	DefaultStage3Path     = "/bootloader/stage3.bin"
	DefaultKernelAddress  = 16 * 1024 * 1024
	DefaultVideoWidth     = 640
	DefaultVideoHeight    = 480
	oneMiB                = 1024 * 1024
)

// Config holds the resolved boot configuration, always fully populated
// (unset keys fall back to the documented defaults rather than leaving
// zero values, per spec §4.4).
type Config struct {
	KernelPath    string
	KernelAddress uint64
	Stage3Path    string
	VideoWidth    uint16
	VideoHeight   uint16

	// PayloadCodec names the compression codec (pkg/payload.ByName) the
	// kernel blob on FAT was packed with, or "" when stored
	// uncompressed. Unset unless the build orchestrator's --compress
	// flag wrote a PAYLOAD_CODEC line when assembling config.cfg.
	PayloadCodec string
}

// Parse reads KEY=VALUE lines from r's text and returns a fully-resolved
// Config. Malformed numeric values for KERNEL_BEGIN or VIDEO leave those
// fields at their defaults (16 MiB, 640x480) rather than failing the
// whole parse — a single bad line shouldn't prevent boot.
// Parse errors encountered along the way are collected and returned
// alongside the Config so callers can log them without halting (spec's
// "file not found: fall back to defaults" edge case extends naturally to
// "line malformed: fall back to defaults" for the same reason).
func Parse(text string) (Config, error) {
	cfg := Config{
		KernelPath:    DefaultKernelPath,
		KernelAddress: 0, // resolved below via ResolveKernelAddress semantics
		Stage3Path:    DefaultStage3Path,
		VideoWidth:    DefaultVideoWidth,
		VideoHeight:   DefaultVideoHeight,
	}
	var rawKernelBegin *uint64
	var errs *multierror.Error

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case keyKernelELF:
			cfg.KernelPath = value
		case keyNextStageBin:
			cfg.Stage3Path = value
		case keyKernelBegin:
			v, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			rawKernelBegin = &v
		case keyVideo:
			w, h, err := parseVideoMode(value)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			cfg.VideoWidth, cfg.VideoHeight = w, h
		case keyPayloadCodec:
			cfg.PayloadCodec = value
		}
	}

	if rawKernelBegin != nil {
		cfg.KernelAddress = resolveKernelAddress(*rawKernelBegin)
	} else {
		cfg.KernelAddress = DefaultKernelAddress
	}

	if errs != nil {
		return cfg, errs.ErrorOrNil()
	}
	return cfg, nil
}

// Render serializes cfg back to the KEY=VALUE text format Parse reads,
// for the build orchestrator to write as the FAT partition's config.cfg
// (spec §4.4/§4.7). KERNEL_BEGIN is written as KernelAddress in raw
// bytes; Parse reads any value at or below 1 MiB (1048576) as MiB units,
// so a KernelAddress at or below 1 MiB does not read back unchanged.
// Unset fields (zero/empty) are
// omitted so a config file built from a bare Config reads like a
// minimal, human-editable stage-2 config.
func (cfg Config) Render() string {
	var sb strings.Builder
	if cfg.KernelPath != "" {
		fmt.Fprintf(&sb, "%s=%s\n", keyKernelELF, cfg.KernelPath)
	}
	if cfg.Stage3Path != "" {
		fmt.Fprintf(&sb, "%s=%s\n", keyNextStageBin, cfg.Stage3Path)
	}
	if cfg.KernelAddress != 0 {
		fmt.Fprintf(&sb, "%s=%d\n", keyKernelBegin, cfg.KernelAddress)
	}
	if cfg.VideoWidth != 0 && cfg.VideoHeight != 0 {
		fmt.Fprintf(&sb, "%s=%dx%d\n", keyVideo, cfg.VideoWidth, cfg.VideoHeight)
	}
	if cfg.PayloadCodec != "" {
		fmt.Fprintf(&sb, "%s=%s\n", keyPayloadCodec, cfg.PayloadCodec)
	}
	return sb.String()
}

// resolveKernelAddress applies the KERNEL_BEGIN threshold rule: values
// at or below 1 MiB (1048576) are MiB units, otherwise raw bytes
// (SPEC_FULL §5's resolution of the spec's own documented ambiguity;
// spec §8 scenario 3 confirms 32 -> 32 MiB, i.e. the comparison is
// against the literal 1 MiB threshold, not against 1).
func resolveKernelAddress(v uint64) uint64 {
	if v <= oneMiB {
		return v * oneMiB
	}
	return v
}

func parseVideoMode(value string) (uint16, uint16, error) {
	wStr, hStr, ok := strings.Cut(value, "x")
	if !ok {
		return 0, 0, &strconv.NumError{Func: "parseVideoMode", Num: value, Err: strconv.ErrSyntax}
	}
	w, err := strconv.ParseUint(strings.TrimSpace(wStr), 10, 16)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.ParseUint(strings.TrimSpace(hStr), 10, 16)
	if err != nil {
		return 0, 0, err
	}
	return uint16(w), uint16(h), nil
}
