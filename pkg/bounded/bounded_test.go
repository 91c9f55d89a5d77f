package bounded

import "testing"

func TestSmallVecFullFails(t *testing.T) {
	v := NewSmallVec[int](2)
	if err := v.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := v.Push(2); err != nil {
		t.Fatal(err)
	}
	if err := v.Push(3); err != ErrFull {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestSmallVecInsertRemove(t *testing.T) {
	v := NewSmallVec[string](4)
	_ = v.Push("a")
	_ = v.Push("c")
	if err := v.Insert(1, "b"); err != nil {
		t.Fatal(err)
	}
	got, _ := v.Get(1)
	if got != "b" {
		t.Fatalf("expected b at index 1, got %s", got)
	}
	if err := v.Remove(0); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 2 {
		t.Fatalf("expected len 2, got %d", v.Len())
	}
	got, _ = v.Get(0)
	if got != "b" {
		t.Fatalf("expected b after removal, got %s", got)
	}
}

func TestSmallMapLinearLookup(t *testing.T) {
	m := NewSmallMap[string, int](32)
	_ = m.Set("KERNEL_ELF", 1)
	_ = m.Set("VIDEO", 2)
	_ = m.Set("KERNEL_ELF", 10)
	v, ok := m.Get("KERNEL_ELF")
	if !ok || v != 10 {
		t.Fatalf("expected updated value 10, got %d ok=%v", v, ok)
	}
	m.Delete("VIDEO")
	if _, ok := m.Get("VIDEO"); ok {
		t.Fatal("expected VIDEO to be deleted")
	}
}

func TestBitVecGrowsOnSetTrue(t *testing.T) {
	b := NewBitVec()
	if b.Len() != 0 {
		t.Fatalf("expected empty BitVec, got len %d", b.Len())
	}
	b.Set(130, true)
	if b.Len() == 0 {
		t.Fatal("expected BitVec to grow on Set(true)")
	}
	if !b.Get(130) {
		t.Fatal("expected bit 130 to be set")
	}
}

func TestBitVecSetFalseBeyondCapacityIsNoop(t *testing.T) {
	b := NewBitVec()
	b.Set(500, false)
	if b.Len() != 0 {
		t.Fatalf("expected no growth from Set(false) beyond capacity, got len %d", b.Len())
	}
}

func TestBitVecFindFirstOf(t *testing.T) {
	b := NewBitVec()
	b.Set(5, true)
	b.Set(70, true)
	if idx := b.FindFirstOf(true); idx != 5 {
		t.Fatalf("expected first set bit at 5, got %d", idx)
	}
	if idx := b.FindLastOf(true); idx != 70 {
		t.Fatalf("expected last set bit at 70, got %d", idx)
	}
}

func TestCircularBufferEvictsOppositeEnd(t *testing.T) {
	c := NewCircularBuffer[int](3)
	c.PushBack(1)
	c.PushBack(2)
	c.PushBack(3)
	c.PushBack(4) // evicts 1

	v, _ := c.At(0)
	if v != 2 {
		t.Fatalf("expected front to be 2 after eviction, got %d", v)
	}

	c.PushFront(0) // evicts back (4)
	v, _ = c.At(c.Len() - 1)
	if v != 3 {
		t.Fatalf("expected back to be 3 after PushFront eviction, got %d", v)
	}
}

func TestCircularBufferByteView(t *testing.T) {
	c := NewCircularBuffer[byte](5)
	for _, b := range []byte("hello") {
		c.PushBack(b)
	}
	if ByteView(c) != "hello" {
		t.Fatalf("expected hello, got %q", ByteView(c))
	}
}
