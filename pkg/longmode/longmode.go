// Package longmode encodes stage-3's CR3/CR0/CR4/EFER transition sequence
// (C5 part, spec §4.5/§5) as an ordered, typestated sequence of steps:
// each step consumes the token the previous one produced, so a function
// requiring "long mode active" cannot be called before the sequence has
// actually run to completion — the unreachable-by-construction guarantee
// spec §9's design notes call for in place of runtime asserts.
//
// Grounded on original_source's bootloader/src/bios_boot/stage-2/src/paging.rs
// enable_paging, whose exact step order this package reproduces:
// CR3 <- PML4 addr, CR0.PG=0, CR4.PAE=1, EFER.LME=1, CR0.PE=1, CR0.PG=1,
// reload data segments — logging a short progress marker at each step
// (its debug_print!/debug_println! calls), here via pkg/blog.
package longmode

import "github.com/ignisboot/ignis/pkg/blog"

// CPU is the seam over the actual control-register writes: production
// code backs it with the arch-specific asm trampoline (built out-of-band,
// SPEC_FULL §0); tests back it with an in-memory fake that records calls.
type CPU interface {
	SetCR3(pml4PhysAddr uint64)
	SetPagingEnabled(enabled bool)
	SetPAE(enabled bool)
	SetLongModeEnable(enabled bool)
	SetProtectedMode(enabled bool)
	LoadGDT(ptrBytes []byte)
	ReloadDataSegments(selector uint16)
	FarJump(codeSelector uint16, target uint64)
}

// Started is the token that begins a long-mode transition. There is
// nothing to hold here beyond proof the caller intends to begin; it
// exists so every subsequent step can require a token by value, matching
// spec §9's "critical sections... function requiring it takes the token
// by move" design note.
type Started struct{ cpu CPU; log *blog.Logger }

// LoadedCR3 is produced once the PML4 physical address has been loaded
// into CR3 (original's "Loading CR3" step).
type LoadedCR3 struct{ cpu CPU; log *blog.Logger }

// PagingDisabled is produced once CR0.PG has been cleared — required
// before CR4.PAE may be set per the architecture's strict ordering
// (original's "Disabling paging" step).
type PagingDisabled struct{ cpu CPU; log *blog.Logger }

// PAEEnabled is produced once CR4.PAE is set (original's "Setting PAE").
type PAEEnabled struct{ cpu CPU; log *blog.Logger }

// LongModeEnabled is produced once IA32_EFER.LME is set (original's
// "Setting Long mode").
type LongModeEnabled struct{ cpu CPU; log *blog.Logger }

// ProtectedModeEnabled is produced once CR0.PE is set (original's
// "Enabling protected mode").
type ProtectedModeEnabled struct{ cpu CPU; log *blog.Logger }

// Active is produced once CR0.PG is set again with PAE+LME already
// active, meaning the CPU is now executing in 64-bit long mode (original's
// "Enabling paging"). Only a function holding an Active token may issue
// the far-jump and segment reload that complete the handoff.
type Active struct{ cpu CPU; log *blog.Logger }

// Begin starts the transition sequence against cpu, logging each step
// through log under the "longmode" module tag.
func Begin(cpu CPU, log *blog.Logger) Started {
	return Started{cpu: cpu, log: log}
}

// LoadPML4 loads the PML4 table's physical address into CR3.
func (s Started) LoadPML4(pml4PhysAddr uint64) LoadedCR3 {
	s.log.Infof("longmode", "loading CR3 <- 0x%x", pml4PhysAddr)
	s.cpu.SetCR3(pml4PhysAddr)
	return LoadedCR3{cpu: s.cpu, log: s.log}
}

// DisablePaging clears CR0.PG, which must happen before CR4.PAE can be
// set (the architecture rejects setting PAE while paging is enabled with
// a different translation mode already active).
func (l LoadedCR3) DisablePaging() PagingDisabled {
	l.log.Infof("longmode", "disabling paging")
	l.cpu.SetPagingEnabled(false)
	return PagingDisabled{cpu: l.cpu, log: l.log}
}

// EnablePAE sets CR4.PAE.
func (p PagingDisabled) EnablePAE() PAEEnabled {
	p.log.Infof("longmode", "setting PAE")
	p.cpu.SetPAE(true)
	return PAEEnabled{cpu: p.cpu, log: p.log}
}

// EnableLongMode sets IA32_EFER.LME.
func (p PAEEnabled) EnableLongMode() LongModeEnabled {
	p.log.Infof("longmode", "setting long mode enable")
	p.cpu.SetLongModeEnable(true)
	return LongModeEnabled{cpu: p.cpu, log: p.log}
}

// EnableProtectedMode sets CR0.PE, required before CR0.PG can be set
// again (the CPU cannot have paging enabled without protected mode).
func (l LongModeEnabled) EnableProtectedMode() ProtectedModeEnabled {
	l.log.Infof("longmode", "enabling protected mode")
	l.cpu.SetProtectedMode(true)
	return ProtectedModeEnabled{cpu: l.cpu, log: l.log}
}

// EnablePaging sets CR0.PG again. With PAE and LME already active, this
// is the instruction that actually activates long mode.
func (p ProtectedModeEnabled) EnablePaging() Active {
	p.log.Infof("longmode", "enabling paging")
	p.cpu.SetPagingEnabled(true)
	return Active{cpu: p.cpu, log: p.log}
}

// FarJumpToKernel performs the far-jump into the 64-bit code selector and
// reloads data segments, completing the handoff (spec §4.5 step 2's final
// two sub-steps). Only callable with an Active token, so the far-jump
// cannot be issued before the CPU is actually in long mode.
func (a Active) FarJumpToKernel(codeSelector, dataSelector uint16, entryPoint uint64) {
	a.log.Infof("longmode", "reloading data segments")
	a.cpu.ReloadDataSegments(dataSelector)
	a.log.Infof("longmode", "far-jumping to 0x%x", entryPoint)
	a.cpu.FarJump(codeSelector, entryPoint)
}
