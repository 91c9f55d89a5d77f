package fbconsole

import "testing"

func newTestFB(w, h int) *Framebuffer {
	bpp := 4
	return &Framebuffer{
		Pixels:        make([]byte, w*h*bpp),
		Width:         w,
		Height:        h,
		BytesPerPixel: bpp,
		Pitch:         w * bpp,
	}
}

func TestWriteLineDrawsSomePixels(t *testing.T) {
	fb := newTestFB(64, 64)
	c := NewConsole(fb, 0xFFFFFFFF, 0x00000000)
	if err := c.WriteLine("HI"); err != nil {
		t.Fatal(err)
	}
	nonZero := 0
	for _, b := range fb.Pixels {
		if b != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("expected WriteLine to draw non-background pixels")
	}
}

func TestConsoleScrollsOnOverflow(t *testing.T) {
	fb := newTestFB(16, 16) // 2 cols x 2 rows of 8x8 glyphs
	c := NewConsole(fb, 0xFFFFFFFF, 0x00000000)
	for i := 0; i < 5; i++ {
		if err := c.WriteLine("A"); err != nil {
			t.Fatal(err)
		}
	}
	if c.cursorY >= c.rows {
		t.Fatalf("cursor row %d should have been clamped by scroll (rows=%d)", c.cursorY, c.rows)
	}
}

func TestUnknownRuneRendersBlock(t *testing.T) {
	g := Lookup('~')
	if g != blockGlyph {
		t.Fatal("expected unknown rune to render as block glyph")
	}
}
