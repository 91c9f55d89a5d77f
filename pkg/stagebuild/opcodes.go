package stagebuild

// opcodeBuilder emits a handful of real x86 instructions by hand for the
// no-assembler fallback path. It intentionally covers only the tiny
// instruction set spec §4.3's stage-1 contract actually needs (disable
// interrupts, zero segment registers, spin) — see package doc.
type opcodeBuilder struct {
	buf []byte
}

func newOpcodeBuilder() *opcodeBuilder { return &opcodeBuilder{} }

// segment register encodings used by the mov reg,0 / mov seg,reg trick
// below (a 16-bit "xor ax,ax; mov <seg>,ax" sequence).
const (
	regDS = 0xD8 // mov ds, ax opcode suffix (0x8E 0xD8)
	regES = 0xC0 // mov es, ax opcode suffix (0x8E 0xC0)
	regSS = 0xD0 // mov ss, ax opcode suffix (0x8E 0xD0)
)

// cli appends the "disable interrupts" instruction (0xFA), spec §4.3
// step 1.
func (b *opcodeBuilder) cli() {
	b.buf = append(b.buf, 0xFA)
}

// zeroSegment appends "xor ax, ax" (0x31 0xC0) followed by
// "mov <seg>, ax" (0x8E <modrm>), zeroing the named segment register
// (spec §4.3 step 1's "zero the segment registers").
func (b *opcodeBuilder) zeroSegment(seg byte) {
	b.buf = append(b.buf, 0x31, 0xC0) // xor ax, ax
	b.buf = append(b.buf, 0x8E, seg)  // mov <seg>, ax
}

// spinForever appends a 2-byte short jump to itself (0xEB 0xFE), the
// structurally simplest "halt execution here" a stub can offer without a
// real destination to jump to.
func (b *opcodeBuilder) spinForever() {
	b.buf = append(b.buf, 0xEB, 0xFE)
}

func (b *opcodeBuilder) bytes() []byte { return b.buf }
