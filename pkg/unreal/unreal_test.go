package unreal

import (
	"testing"

	"github.com/ignisboot/ignis/pkg/gdt"
)

func TestEnterCapturesRealModeSelectors(t *testing.T) {
	session, ptr := Enter(0x0, 0x1000)
	if !session.Active() {
		t.Fatal("expected session to be active immediately after Enter")
	}
	if ptr.Limit != uint16(len(Table())*8-1) {
		t.Fatalf("unexpected GDT pointer limit: %d", ptr.Limit)
	}
}

func TestExitRestoresExactSelectorsAndDeactivates(t *testing.T) {
	session, _ := Enter(0x1234, 0x5678)

	ds, ss, ok := session.Exit()
	if !ok {
		t.Fatal("expected Exit to succeed on an active session")
	}
	if ds != 0x1234 || ss != 0x5678 {
		t.Fatalf("expected restored selectors (0x1234, 0x5678), got (%#x, %#x)", ds, ss)
	}
	if session.Active() {
		t.Fatal("expected session to be inactive after Exit")
	}
}

func TestExitOnInactiveSessionFails(t *testing.T) {
	session, _ := Enter(0, 0)
	session.Exit()
	if _, _, ok := session.Exit(); ok {
		t.Fatal("expected second Exit on an already-exited session to fail")
	}
}

func TestFlatDataSelectorMatchesGDTDataEntry(t *testing.T) {
	if FlatDataSelector != gdt.NewSelector(2, 0) {
		t.Fatalf("expected FlatDataSelector to reference GDT entry 2, got %#x", FlatDataSelector)
	}
}
