// Package unreal models entry into and exit from unreal mode (C4 part,
// supplemented per SPEC_FULL §4): a brief protected-mode round-trip that
// lets real-mode code keep issuing BIOS interrupts while getting 32-bit
// data-segment limits, so stage-2 can address memory above 1 MiB.
//
// Grounded on original_source's bootloader/src/bios_boot/stage-1/src/unreal.rs
// (enter_unreal_mode: save DS/SS, load a temporary flat GDT, toggle
// CR0.PE on then off, reload DS/SS with a flat selector, then restore the
// saved real-mode selectors). There is no live CPU in this Go module
// (SPEC_FULL §0 framing), so the package produces the exact byte sequence
// and selector values a real trampoline would use and exposes the
// enter/exit symmetry as a session value rather than raw asm.
package unreal

import "github.com/ignisboot/ignis/pkg/gdt"

// Session is the scoped guard produced by Enter and consumed by Exit,
// mirroring the original's paired enter_unreal_mode/restore sequence. It
// remembers the real-mode DS/SS selectors so Exit can restore them
// exactly, matching the original's save-then-restore symmetry.
type Session struct {
	savedDS uint16
	savedSS uint16
	active  bool
}

// Table is the temporary flat GDT unreal mode loads: a null descriptor
// plus one flat code and one flat data segment, matching the original's
// SimpleGDT (4 GiB limit, present, user segment, read-write, 32-bit
// granular).
func Table() gdt.Table {
	return gdt.NewFlat32()
}

// Enter begins an unreal-mode session: it records the current DS/SS
// selectors (supplied by the caller, since only the real CPU state knows
// them) so Exit can restore them, and returns the session token along
// with the GDT pointer bytes a trampoline would load via LGDT.
func Enter(currentDS, currentSS uint16) (Session, gdt.Pointer) {
	ptr := gdt.NewPointer(Table(), 0) // base left 0: the table's final load address is not known here
	return Session{savedDS: currentDS, savedSS: currentSS, active: true}, ptr
}

// FlatDataSelector is the selector unreal mode loads into DS/SS while
// protected mode is briefly toggled on, giving 32-bit segment limits.
var FlatDataSelector = gdt.NewSelector(2, 0)

// Exit ends the session and reports the DS/SS selectors the caller must
// restore — exactly the values passed to Enter, never anything learned
// mid-session, which is what makes unreal mode safe to re-enter.
func (s *Session) Exit() (ds, ss uint16, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	s.active = false
	return s.savedDS, s.savedSS, true
}

// Active reports whether the session has not yet been exited.
func (s *Session) Active() bool { return s.active }
