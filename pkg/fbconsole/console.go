// Package fbconsole implements the linear-framebuffer text console sink
// for the C8 debug logger (spec §4.8): a built-in glyph font blitted into
// a linear RGB/BGR framebuffer, with manual scroll-on-overflow. It is one
// of two sinks the logger may hold; the other is pkg/uart.
package fbconsole

const (
	glyphWidth  = 8
	glyphHeight = 8
)

// Framebuffer describes the linear video surface the console draws into,
// matching the fields the BootInfo video block carries (spec §3): a
// byte-addressed plane of Width x Height pixels at BytesPerPixel stride.
type Framebuffer struct {
	Pixels        []byte
	Width, Height int
	BytesPerPixel int
	Pitch         int // bytes per scanline; may exceed Width*BytesPerPixel
}

func (fb *Framebuffer) putPixel(x, y int, color uint32) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	off := y*fb.Pitch + x*fb.BytesPerPixel
	for i := 0; i < fb.BytesPerPixel && off+i < len(fb.Pixels); i++ {
		fb.Pixels[off+i] = byte(color >> (8 * i))
	}
}

// Console is a text-mode console rendered onto a Framebuffer. Cursor
// position is tracked in glyph cells; when text would overflow the
// bottom row the whole framebuffer is scrolled up by one glyph row.
type Console struct {
	fb            *Framebuffer
	cols, rows    int
	cursorX       int
	cursorY       int
	fg, bg        uint32
}

// NewConsole returns a Console drawing into fb with the given foreground
// and background pixel colors.
func NewConsole(fb *Framebuffer, fg, bg uint32) *Console {
	return &Console{
		fb:   fb,
		cols: fb.Width / glyphWidth,
		rows: fb.Height / glyphHeight,
		fg:   fg,
		bg:   bg,
	}
}

func (c *Console) blit(col, row int, g Glyph) {
	baseX, baseY := col*glyphWidth, row*glyphHeight
	for dy := 0; dy < glyphHeight; dy++ {
		rowBits := g[dy]
		for dx := 0; dx < glyphWidth; dx++ {
			set := rowBits&(0x80>>uint(dx)) != 0
			color := c.bg
			if set {
				color = c.fg
			}
			c.fb.putPixel(baseX+dx, baseY+dy, color)
		}
	}
}

func (c *Console) newline() {
	c.cursorX = 0
	c.cursorY++
	if c.cursorY >= c.rows {
		c.scroll()
		c.cursorY = c.rows - 1
	}
}

// scroll shifts the framebuffer contents up by one glyph row and clears
// the freed bottom row, the "manual scroll" spec §4.8 calls for.
func (c *Console) scroll() {
	rowBytes := glyphHeight * c.fb.Pitch
	copy(c.fb.Pixels, c.fb.Pixels[rowBytes:])
	bottom := len(c.fb.Pixels) - rowBytes
	for i := bottom; i < len(c.fb.Pixels); i++ {
		c.fb.Pixels[i] = byte(c.bg)
	}
}

// WriteLine implements blog.Sink: it blits line, cell by cell, wrapping
// at the console width and always finishing with a newline so successive
// log lines do not run together.
func (c *Console) WriteLine(line string) error {
	for _, r := range line {
		if r == '\n' {
			c.newline()
			continue
		}
		c.blit(c.cursorX, c.cursorY, Lookup(r))
		c.cursorX++
		if c.cursorX >= c.cols {
			c.newline()
		}
	}
	c.newline()
	return nil
}
