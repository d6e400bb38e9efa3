package gif

import (
	"bytes"
	stdlzw "compress/lzw"
	"encoding/binary"
	"image"
	"image/color"
	stdgif "image/gif"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexbee-net/streamdec/base"
)

func opaquePalette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		p[i] = color.RGBA{R: uint8(i * 16), G: uint8(255 - i*8), B: uint8(i * 5), A: 0xff}
	}

	return p
}

func fillPattern(m *image.Paletted, seed int) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.SetColorIndex(x, y, uint8((x*7+y*3+seed)%len(m.Palette)))
		}
	}
}

// stillGIF is a single opaque 160x120 frame.
func stillGIF(t testing.TB) []byte {
	m := image.NewPaletted(image.Rect(0, 0, 160, 120), opaquePalette(16))
	fillPattern(m, 0)

	var buf bytes.Buffer
	require.NoError(t, stdgif.Encode(&buf, m, nil))

	return buf.Bytes()
}

var animationBounds = []image.Rectangle{
	image.Rect(0, 0, 64, 48),
	image.Rect(15, 31, 52, 40),
	image.Rect(15, 0, 64, 40),
	image.Rect(15, 0, 64, 40),
}

// animationGIF is a 64x48 four frame animation that loops twice after the
// first play. Palette index 0 is transparent.
func animationGIF(t testing.TB) []byte {
	pal := opaquePalette(8)
	pal[0] = color.RGBA{}

	g := &stdgif.GIF{
		LoopCount: 2,
		Config:    image.Config{ColorModel: pal, Width: 64, Height: 48},
	}

	for i, r := range animationBounds {
		m := image.NewPaletted(r, pal)
		fillPattern(m, i)

		g.Image = append(g.Image, m)
		g.Delay = append(g.Delay, 10*(i+1))
		g.Disposal = append(g.Disposal, byte(i))
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))

	return buf.Bytes()
}

// rawFrame and rawGIF assemble containers the standard encoder refuses to
// produce: interlaced frames, out of bounds frames, broken payloads.
type rawFrame struct {
	rect         image.Rectangle
	interlaced   bool
	lct          []byte
	transparency bool
	transparent  byte
	litWidth     int
	widthByte    int
	pixels       []byte
}

type rawGIF struct {
	width     int
	height    int
	gct       []byte
	netscape  bool
	loops     int
	extras    bool
	frames    []rawFrame
	noTrailer bool
}

func paletteFlags(p []byte) byte {
	if len(p) == 0 {
		return 0
	}

	k := byte(0)
	for 3<<(k+1) < len(p) {
		k++
	}

	return flagColorTable | k
}

func subBlocks(buf *bytes.Buffer, data []byte) {
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}

		buf.WriteByte(byte(n))
		buf.Write(data[:n])
		data = data[n:]
	}

	buf.WriteByte(0)
}

func (g rawGIF) bytes(t testing.TB) []byte {
	var buf bytes.Buffer

	le := func(v int) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		buf.Write(b[:])
	}

	buf.WriteString("GIF89a")
	le(g.width)
	le(g.height)
	buf.WriteByte(paletteFlags(g.gct))
	buf.Write([]byte{0, 0})
	buf.Write(g.gct)

	if g.extras {
		buf.Write([]byte{introducerExtension, 0xfe})
		subBlocks(&buf, []byte("a comment that is skipped"))

		buf.Write([]byte{introducerExtension, labelApplication, 11})
		buf.WriteString("XMP DataXMP")
		subBlocks(&buf, bytes.Repeat([]byte{'x'}, 300))

		buf.Write([]byte{introducerExtension, 0x01})
		subBlocks(&buf, make([]byte, 12))
	}

	if g.netscape {
		buf.Write([]byte{introducerExtension, labelApplication, 11})
		buf.WriteString("NETSCAPE2.0")
		buf.Write([]byte{3, 1, byte(g.loops), byte(g.loops >> 8), 0})
	}

	for _, f := range g.frames {
		if f.transparency {
			buf.Write([]byte{introducerExtension, labelGraphicControl, 4, flagTransparent, 0, 0, f.transparent, 0})
		}

		buf.WriteByte(introducerImage)
		le(f.rect.Min.X)
		le(f.rect.Min.Y)
		le(f.rect.Dx())
		le(f.rect.Dy())

		flags := paletteFlags(f.lct)
		if f.interlaced {
			flags |= flagInterlaced
		}

		buf.WriteByte(flags)
		buf.Write(f.lct)

		lw := f.litWidth
		if lw == 0 {
			lw = 8
		}

		wb := f.widthByte
		if wb == 0 {
			wb = lw
		}

		buf.WriteByte(byte(wb))

		var data bytes.Buffer
		w := stdlzw.NewWriter(&data, stdlzw.LSB, lw)
		_, err := w.Write(f.pixels)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		subBlocks(&buf, data.Bytes())
	}

	if !g.noTrailer {
		buf.WriteByte(introducerTrailer)
	}

	return buf.Bytes()
}

func rgbPalette(n int) []byte {
	p := make([]byte, 3*n)
	for i := range p {
		p[i] = byte(i * 37)
	}

	return p
}

// interlace reorders the rows of a w x h image into interlaced stream order.
func interlace(pix []byte, w, h int) []byte {
	out := make([]byte, 0, len(pix))

	for pass := 0; pass < 4; pass++ {
		for y := int(interlaceStart[pass]); y < h; y += int(interlaceStep[pass]) {
			out = append(out, pix[y*w:(y+1)*w]...)
		}
	}

	return out
}

func sequence(n, mod int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i % mod)
	}

	return p
}

// /////////////////////////////////////////////////////////////////////////////

// feeder plays the caller's side of the protocol: it hands the decoder a
// reader limited to readLimit bytes per call and appends input chunk bytes
// at a time when the decoder runs dry.
type feeder struct {
	t         testing.TB
	buf       *base.IOBuffer
	rest      []byte
	readLimit int
	chunk     int
	compact   bool
	calls     int
}

func newFeeder(t testing.TB, data []byte, capacity, initial int) *feeder {
	buf, err := base.NewIOBuffer(capacity)
	require.NoError(t, err)

	f := &feeder{t: t, buf: buf, rest: data}
	if initial > 0 {
		f.append(initial)
	}

	return f
}

func fullFeeder(t testing.TB, data []byte) *feeder {
	return newFeeder(t, data, len(data), len(data))
}

func (f *feeder) append(n int) {
	if f.compact {
		f.buf.Compact()
	}

	// Zero means everything that is left.
	if n > len(f.rest) || n <= 0 {
		n = len(f.rest)
	}

	k, _ := f.buf.Append(f.rest[:n])
	f.rest = f.rest[k:]

	if len(f.rest) == 0 {
		f.buf.Close()
	}
}

func (f *feeder) reader() base.Reader {
	r := f.buf.Reader()
	if f.readLimit > 0 {
		r = r.WithLimit(f.readLimit)
	}

	return r
}

// do repeats call until it returns something other than base.ShortRead,
// checking that every suspension drained the reader it was given.
func (f *feeder) do(call func(src base.Reader) base.Status) base.Status {
	for {
		f.calls++
		require.Less(f.t, f.calls, 1<<22, "decoder does not finish")

		r := f.reader()
		before := f.buf.ReaderPosition()
		avail := r.Available()

		st := call(r)
		if !st.Is(base.ShortRead) {
			return st
		}

		require.Equal(f.t, 0, r.Available(), "short read left bytes behind")

		if avail > 0 {
			require.Greater(f.t, f.buf.ReaderPosition(), before, "short read without progress")
		}

		if f.buf.UnreadLen() == 0 {
			require.False(f.t, f.buf.Closed(), "short read on closed input")
			f.append(f.chunk)
		}
	}
}

type decodedFrame struct {
	cfg     base.FrameConfig
	pix     []byte
	palette []byte
}

type trace struct {
	ic     base.ImageConfig
	frames []decodedFrame
}

func newChecked(t testing.TB) *Decoder {
	d := &Decoder{}
	require.True(t, d.CheckVersion(DecoderSize, base.Version).IsOK())

	return d
}

// decodeAll runs the whole protocol and records what it produced.
func decodeAll(t testing.TB, f *feeder) trace {
	d := newChecked(t)

	var tr trace

	st := f.do(func(src base.Reader) base.Status {
		return d.DecodeImageConfig(&tr.ic, src)
	})
	require.True(t, st.IsOK(), st.String())

	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(tr.ic.Pixel, make([]byte, tr.ic.PixbufLen())).IsOK())

	workbuf := make([]byte, tr.ic.WorkbufLen.Max)

	for {
		var fc base.FrameConfig

		st = f.do(func(src base.Reader) base.Status {
			return d.DecodeFrameConfig(&fc, src)
		})
		if st.Is(base.EndOfData) {
			break
		}

		require.True(t, st.IsOK(), st.String())

		st = f.do(func(src base.Reader) base.Status {
			return d.DecodeFrame(&pb, src, workbuf)
		})
		require.True(t, st.IsOK(), st.String())

		pix := make([]byte, fc.Bounds.Width()*fc.Bounds.Height())
		pb.CopyRect(pix, fc.Bounds)

		tr.frames = append(tr.frames, decodedFrame{
			cfg:     fc,
			pix:     pix,
			palette: append([]byte(nil), pb.Palette()...),
		})
	}

	require.Equal(t, uint64(len(tr.frames)), d.NumDecodedFrameConfigs())
	require.Equal(t, uint64(len(tr.frames)), d.NumDecodedFrames())

	return tr
}
