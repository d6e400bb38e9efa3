package base

// PaletteLen is the size in bytes of an indexed pixel buffer's palette.
const PaletteLen = 4 * 256

// PixelBuffer is caller owned pixel memory laid out according to a
// PixelConfig, plus the palette of indexed formats.
type PixelBuffer struct {
	cfg     PixelConfig
	pix     []byte
	stride  int
	palette [PaletteLen]byte
}

// SetFromSlice binds the buffer to cfg, using pix as its backing memory.
func (b *PixelBuffer) SetFromSlice(cfg PixelConfig, pix []byte) Status {
	if b == nil {
		return ErrBadReceiver
	}

	if !cfg.IsValid() {
		return ErrBadArgument.WithMessage("invalid pixel config")
	}

	n := cfg.PixbufLen()
	if uint64(len(pix)) < n {
		return ErrBadArgumentLength.WithMessage("pixel buffer holds %d bytes, want %d", len(pix), n)
	}

	b.cfg = cfg
	b.pix = pix[:n]
	b.stride = int(cfg.Width) * cfg.Format.BytesPerPixel()

	return OK
}

func (b *PixelBuffer) Config() PixelConfig { return b.cfg }
func (b *PixelBuffer) Stride() int         { return b.stride }
func (b *PixelBuffer) Pixels() []byte      { return b.pix }

// Palette returns the BGRA palette. It aliases the buffer's memory.
func (b *PixelBuffer) Palette() []byte {
	return b.palette[:]
}

// Row returns the pixels of row y, or nil when y is out of range.
func (b *PixelBuffer) Row(y uint32) []byte {
	if y >= b.cfg.Height {
		return nil
	}

	i := int(y) * b.stride

	return b.pix[i : i+b.stride]
}

// CopyRect copies the pixels within r, row after row, into dst and returns
// the number of bytes copied. It is how fixtures of decoded frames are
// produced.
func (b *PixelBuffer) CopyRect(dst []byte, r Rect) int {
	r = r.Intersect(b.cfg.Bounds())
	bpp := b.cfg.Format.BytesPerPixel()
	n := 0

	for y := r.MinY; y < r.MaxY; y++ {
		row := b.Row(y)
		n += copy(dst[n:], row[int(r.MinX)*bpp:int(r.MaxX)*bpp])

		if n == len(dst) {
			break
		}
	}

	return n
}
