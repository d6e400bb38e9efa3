package gif

import (
	"bytes"
	"image"
	"image/color"
	stdgif "image/gif"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"

	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/lzw"
)

func TestDecoder_CheckVersion(t *testing.T) {
	t.Parallel()

	var nilDecoder *Decoder
	assert.Equal(t, base.ErrBadReceiver, nilDecoder.CheckVersion(DecoderSize, base.Version))

	d := &Decoder{}
	assert.Equal(t, base.ErrBadSizeofReceiver, d.CheckVersion(DecoderSize+1, base.Version))
	assert.Equal(t, base.ErrBadSizeofReceiver, d.CheckVersion(lzw.DecoderSize, base.Version))
	assert.Equal(t, base.ErrBadVersion, d.CheckVersion(DecoderSize, base.Version^1<<32))

	outer, inner := d.Magic()
	assert.Equal(t, uint32(0), outer)
	assert.Equal(t, uint32(0), inner)

	assert.Equal(t, base.OK, d.CheckVersion(DecoderSize, base.Version))

	outer, inner = d.Magic()
	assert.Equal(t, base.MagicInitialized, outer)
	assert.Equal(t, base.MagicInitialized, inner)

	nd, err := NewDecoder()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nd.NumDecodedFrameConfigs())
}

func TestDecoder_CheckVersionMissing(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)
	src := base.NewIOBufferFrom(data, true)

	var (
		d  Decoder
		pb base.PixelBuffer
	)

	assert.Equal(t, base.ErrCheckVersionMissing, d.DecodeImageConfig(nil, src.Reader()))
	assert.Equal(t, base.ErrCheckVersionMissing, d.DecodeFrameConfig(nil, src.Reader()))
	assert.Equal(t, base.ErrCheckVersionMissing, d.DecodeFrame(&pb, src.Reader(), nil))
	assert.Equal(t, 0, src.ReadIndex())

	var nilDecoder *Decoder
	assert.Equal(t, base.ErrBadReceiver, nilDecoder.DecodeImageConfig(nil, src.Reader()))
	assert.Equal(t, base.ErrBadReceiver, nilDecoder.DecodeFrameConfig(nil, src.Reader()))
	assert.Equal(t, base.ErrBadReceiver, nilDecoder.DecodeFrame(&pb, src.Reader(), nil))
}

func TestDecoder_CallSequence(t *testing.T) {
	t.Run("SecondImageConfig", TestDecoder_CallSequence_SecondImageConfig)
	t.Run("SecondImageConfigAfterError", TestDecoder_CallSequence_SecondImageConfigAfterError)
	t.Run("SecondImageConfigAfterBadArgument", TestDecoder_CallSequence_SecondImageConfigAfterBadArgument)
	t.Run("SecondImageConfigWhileSuspended", TestDecoder_CallSequence_SecondImageConfigWhileSuspended)
	t.Run("InterleavedSuspension", TestDecoder_CallSequence_InterleavedSuspension)
	t.Run("DisabledByPreviousError", TestDecoder_CallSequence_DisabledByPreviousError)
}

func TestDecoder_CallSequence_SecondImageConfig(t *testing.T) {
	t.Parallel()

	src := base.NewIOBufferFrom(stillGIF(t), true)
	d := newChecked(t)

	assert.Equal(t, base.OK, d.DecodeImageConfig(nil, src.Reader()))

	ri := src.ReadIndex()
	assert.Equal(t, base.ErrInvalidCallSequence, d.DecodeImageConfig(nil, src.Reader()))
	assert.Equal(t, ri, src.ReadIndex())
}

func TestDecoder_CallSequence_SecondImageConfigAfterError(t *testing.T) {
	t.Parallel()

	src := base.NewIOBufferFrom([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), true)
	d := newChecked(t)

	st := d.DecodeImageConfig(nil, src.Reader())
	assert.True(t, st.Is(ErrBadHeader), st.String())
	assert.Equal(t, base.ErrInvalidCallSequence, d.DecodeImageConfig(nil, src.Reader()))
}

func TestDecoder_CallSequence_SecondImageConfigAfterBadArgument(t *testing.T) {
	t.Parallel()

	src := base.NewIOBufferFrom(stillGIF(t), true)
	d := newChecked(t)

	st := d.DecodeImageConfig(nil, base.Reader{})
	assert.True(t, st.Is(base.ErrBadArgument), st.String())
	assert.Equal(t, base.ErrInvalidCallSequence, d.DecodeImageConfig(nil, src.Reader()))
	assert.Equal(t, 0, src.ReadIndex())
}

func TestDecoder_CallSequence_SecondImageConfigWhileSuspended(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)
	src := base.NewIOBufferFrom(data[:8], false)
	d := newChecked(t)

	assert.Equal(t, base.ShortRead, d.DecodeFrameConfig(nil, src.Reader()))

	st := d.DecodeImageConfig(nil, src.Reader())
	assert.True(t, st.Is(base.ErrInvalidCallSequence), st.String())
	assert.Equal(t, base.ErrInvalidCallSequence, d.DecodeImageConfig(nil, src.Reader()))
}

func TestDecoder_CallSequence_InterleavedSuspension(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)
	src := base.NewIOBufferFrom(data[:8], false)
	d := newChecked(t)

	assert.Equal(t, base.ShortRead, d.DecodeImageConfig(nil, src.Reader()))

	st := d.DecodeFrameConfig(nil, src.Reader())
	assert.True(t, st.Is(base.ErrInvalidCallSequence), st.String())
	assert.Equal(t, base.ErrDisabledByPreviousError, d.DecodeFrameConfig(nil, src.Reader()))
}

func TestDecoder_CallSequence_DisabledByPreviousError(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	var ic base.ImageConfig
	require.Equal(t, base.OK, d.DecodeImageConfig(&ic, src.Reader()))

	// A workbuf one byte short is a fatal usage error.
	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(ic.Pixel, make([]byte, ic.PixbufLen())).IsOK())

	st := d.DecodeFrame(&pb, src.Reader(), make([]byte, ic.WorkbufLen.Min-1))
	assert.True(t, st.Is(base.ErrBadWorkbufLength), st.String())

	workbuf := make([]byte, ic.WorkbufLen.Max)
	assert.Equal(t, base.ErrDisabledByPreviousError, d.DecodeFrame(&pb, src.Reader(), workbuf))
	assert.Equal(t, base.ErrDisabledByPreviousError, d.DecodeFrameConfig(nil, src.Reader()))

	outer, _ := d.Magic()
	assert.Equal(t, base.MagicDisabled, outer)
}

func TestDecoder_BadArguments(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)

	t.Run("NilReader", func(t *testing.T) {
		t.Parallel()

		d := newChecked(t)
		st := d.DecodeImageConfig(nil, base.Reader{})
		assert.True(t, st.Is(base.ErrBadArgument), st.String())
	})

	t.Run("PixelBufferMismatch", func(t *testing.T) {
		t.Parallel()

		src := base.NewIOBufferFrom(data, true)
		d := newChecked(t)

		var pb base.PixelBuffer
		require.True(t, pb.SetFromSlice(base.PixelConfig{
			Format: base.PixelFormatIndexedBGRANonPremul,
			Width:  120,
			Height: 160,
		}, make([]byte, 19200)).IsOK())

		st := d.DecodeFrame(&pb, src.Reader(), make([]byte, 19200))
		assert.True(t, st.Is(base.ErrBadArgument), st.String())
	})

	t.Run("NilPixelBuffer", func(t *testing.T) {
		t.Parallel()

		src := base.NewIOBufferFrom(data, true)
		d := newChecked(t)

		st := d.DecodeFrame(nil, src.Reader(), make([]byte, 19200))
		assert.True(t, st.Is(base.ErrBadArgument), st.String())
	})
}

func TestDecoder_BadHeader(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{
		[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
		[]byte("GIF88a\x01\x00\x01\x00\x00\x00\x00;"),
	} {
		d := newChecked(t)
		st := d.DecodeImageConfig(nil, base.NewIOBufferFrom(data, true).Reader())
		assert.True(t, st.Is(ErrBadHeader), st.String())
		assert.Equal(t, "gif: bad header", st.Code().String())
	}
}

func TestDecoder_Still(t *testing.T) {
	t.Parallel()

	data := stillGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	var ic base.ImageConfig
	require.Equal(t, base.OK, d.DecodeImageConfig(&ic, src.Reader()))

	assert.Equal(t, base.PixelFormatIndexedBGRANonPremul, ic.Pixel.Format)
	assert.Equal(t, uint32(160), ic.Pixel.Width)
	assert.Equal(t, uint32(120), ic.Pixel.Height)
	assert.Equal(t, uint32(1), ic.NumLoops)
	assert.True(t, ic.FirstFrameIsOpaque)
	assert.Equal(t, base.RangeU64{Min: 19200, Max: 19200}, ic.WorkbufLen)
	assert.Equal(t, uint64(19200), ic.PixbufLen())
	assert.Equal(t, byte(introducerImage), data[ic.FirstFrameIOPosition-imageDescriptorLen])

	var fc base.FrameConfig
	require.Equal(t, base.OK, d.DecodeFrameConfig(&fc, src.Reader()))
	assert.Equal(t, base.MakeRect(0, 0, 160, 120), fc.Bounds)
	assert.Equal(t, ic.FirstFrameIOPosition, fc.IOPosition)
	assert.Equal(t, uint64(0), fc.Index)
	assert.Equal(t, -1, fc.TransparentIndex)
	assert.Equal(t, uint64(1), d.NumDecodedFrameConfigs())
	assert.Equal(t, uint64(0), d.NumDecodedFrames())

	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(ic.Pixel, make([]byte, ic.PixbufLen())).IsOK())

	workbuf := make([]byte, ic.WorkbufLen.Max)
	require.Equal(t, base.OK, d.DecodeFrame(&pb, src.Reader(), workbuf))
	assert.Equal(t, uint64(1), d.NumDecodedFrames())

	assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))
	assert.Equal(t, base.EndOfData, d.DecodeFrame(&pb, src.Reader(), workbuf))
	assert.Equal(t, 0, src.UnreadLen())
	assert.Equal(t, uint64(1), d.NumDecodedFrameConfigs())
}

func TestDecoder_Animation(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	var ic base.ImageConfig
	require.Equal(t, base.OK, d.DecodeImageConfig(&ic, src.Reader()))
	assert.Equal(t, uint32(64), ic.Pixel.Width)
	assert.Equal(t, uint32(48), ic.Pixel.Height)
	assert.Equal(t, uint32(3), ic.NumLoops)
	assert.False(t, ic.FirstFrameIsOpaque)

	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(ic.Pixel, make([]byte, ic.PixbufLen())).IsOK())

	workbuf := make([]byte, ic.WorkbufLen.Max)
	disposals := []base.Disposal{base.DisposalNone, base.DisposalNone, base.DisposalRestoreBackground, base.DisposalRestorePrevious}

	for i, r := range animationBounds {
		assert.Equal(t, uint64(i), d.NumDecodedFrameConfigs())

		var fc base.FrameConfig
		require.Equal(t, base.OK, d.DecodeFrameConfig(&fc, src.Reader()))
		assert.Equal(t, uint64(i+1), d.NumDecodedFrameConfigs())

		assert.Equal(t, base.MakeRect(uint32(r.Min.X), uint32(r.Min.Y), uint32(r.Max.X), uint32(r.Max.Y)), fc.Bounds)
		assert.Equal(t, uint64(i), fc.Index)
		assert.Equal(t, time.Duration(i+1)*100*time.Millisecond, fc.Duration)
		assert.Equal(t, disposals[i], fc.Disposal)
		assert.Equal(t, 0, fc.TransparentIndex)
		assert.False(t, fc.Interlaced)
		assert.Equal(t, byte(introducerImage), data[fc.IOPosition-imageDescriptorLen])

		require.Equal(t, base.OK, d.DecodeFrame(&pb, src.Reader(), workbuf))
		assert.Equal(t, uint64(i+1), d.NumDecodedFrames())
	}

	assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))
	assert.Equal(t, src.WriteIndex(), src.ReadIndex())
	assert.Equal(t, uint64(4), d.NumDecodedFrameConfigs())
	assert.Equal(t, uint64(4), d.NumDecodedFrames())
}

func TestDecoder_EndOfDataIsTerminal(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	for st := d.DecodeFrameConfig(nil, src.Reader()); st.IsOK(); st = d.DecodeFrameConfig(nil, src.Reader()) {
	}

	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(base.PixelConfig{
		Format: base.PixelFormatIndexedBGRANonPremul,
		Width:  64,
		Height: 48,
	}, make([]byte, 64*48)).IsOK())

	for i := 0; i < 3; i++ {
		assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))
		assert.Equal(t, base.EndOfData, d.DecodeFrame(&pb, src.Reader(), make([]byte, 64*48)))
		assert.Equal(t, len(data), src.ReadIndex())
	}

	// Buffers are not checked once the input is exhausted.
	assert.Equal(t, base.EndOfData, d.DecodeFrame(&pb, src.Reader(), nil))
	assert.Equal(t, base.EndOfData, d.DecodeFrame(nil, src.Reader(), nil))
	assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))

	outer, _ := d.Magic()
	assert.Equal(t, base.MagicInitialized, outer)
}

func TestDecoder_IOPosition(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	want := decodeAll(t, fullFeeder(t, data))

	require.Len(t, want.frames, len(animationBounds))
	assert.Equal(t, want.frames[0].cfg.IOPosition, want.ic.FirstFrameIOPosition)

	for _, fr := range want.frames {
		pos := fr.cfg.IOPosition
		assert.Equal(t, byte(introducerImage), data[pos-imageDescriptorLen], "frame %d at %d", fr.cfg.Index, pos)
	}

	// Two chunks, compacting in between: positions stay absolute.
	for _, split := range []int{len(data) / 3, len(data) / 2, 2 * len(data) / 3} {
		capacity := split
		if len(data)-split > capacity {
			capacity = len(data) - split
		}

		f := newFeeder(t, data, capacity, split)
		f.compact = true

		got := decodeAll(t, f)
		require.Equal(t, want, got, "split at %d", split)
	}
}

func TestDecoder_SkipUndecodedFrames(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	require.Equal(t, base.OK, d.DecodeImageConfig(nil, src.Reader()))

	for _, r := range animationBounds {
		var fc base.FrameConfig
		require.Equal(t, base.OK, d.DecodeFrameConfig(&fc, src.Reader()))
		assert.Equal(t, uint32(r.Min.X), fc.Bounds.MinX)
		assert.Equal(t, uint32(r.Max.Y), fc.Bounds.MaxY)
	}

	assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))
	assert.Equal(t, uint64(4), d.NumDecodedFrameConfigs())
	assert.Equal(t, uint64(0), d.NumDecodedFrames())
}

func TestDecoder_ImplicitStages(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	var pb base.PixelBuffer
	require.True(t, pb.SetFromSlice(base.PixelConfig{
		Format: base.PixelFormatIndexedBGRANonPremul,
		Width:  64,
		Height: 48,
	}, make([]byte, 64*48)).IsOK())

	workbuf := make([]byte, 64*48)

	for i := 0; i < len(animationBounds); i++ {
		require.Equal(t, base.OK, d.DecodeFrame(&pb, src.Reader(), workbuf))
	}

	assert.Equal(t, base.EndOfData, d.DecodeFrame(&pb, src.Reader(), workbuf))
	assert.Equal(t, uint64(4), d.NumDecodedFrameConfigs())
	assert.Equal(t, uint64(4), d.NumDecodedFrames())
	assert.Equal(t, base.ErrInvalidCallSequence, d.DecodeImageConfig(nil, src.Reader()))
}

func TestDecoder_MatchesStdlib(t *testing.T) {
	t.Parallel()

	pix := sequence(13*11, 16)

	tests := []struct {
		name string
		data func(testing.TB) []byte
	}{
		{"Still", stillGIF},
		{"Animation", animationGIF},
		{"Interlaced", func(t testing.TB) []byte {
			return rawGIF{
				width:  13,
				height: 11,
				gct:    rgbPalette(16),
				frames: []rawFrame{{
					rect:       image.Rect(0, 0, 13, 11),
					interlaced: true,
					litWidth:   4,
					pixels:     interlace(pix, 13, 11),
				}},
			}.bytes(t)
		}},
		{"LocalPalettes", func(t testing.TB) []byte {
			return rawGIF{
				width:    8,
				height:   8,
				gct:      rgbPalette(4),
				netscape: true,
				frames: []rawFrame{
					{rect: image.Rect(0, 0, 8, 8), litWidth: 2, pixels: sequence(64, 4)},
					{rect: image.Rect(2, 2, 6, 6), lct: rgbPalette(32), litWidth: 5, pixels: sequence(16, 32)},
					{rect: image.Rect(1, 0, 8, 3), transparency: true, transparent: 3, litWidth: 2, pixels: sequence(21, 4)},
				},
			}.bytes(t)
		}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := tt.data(t)
			tr := decodeAll(t, fullFeeder(t, data))

			want, err := stdgif.DecodeAll(bytes.NewReader(data))
			require.NoError(t, err)
			require.Len(t, tr.frames, len(want.Image))

			if want.LoopCount > 0 {
				assert.Equal(t, uint32(want.LoopCount+1), tr.ic.NumLoops)
			}

			for i, m := range want.Image {
				got := tr.frames[i]
				b := m.Bounds()

				assert.Equal(t, base.MakeRect(uint32(b.Min.X), uint32(b.Min.Y), uint32(b.Max.X), uint32(b.Max.Y)), got.cfg.Bounds)
				assert.Equal(t, time.Duration(want.Delay[i])*10*time.Millisecond, got.cfg.Duration)

				var pix []byte
				for y := b.Min.Y; y < b.Max.Y; y++ {
					pix = append(pix, m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]...)
				}

				assert.Equal(t, pix, got.pix, "frame %d pixels", i)

				for j, c := range m.Palette {
					rgba := color.RGBAModel.Convert(c).(color.RGBA)
					e := got.palette[4*j : 4*j+4]
					assert.Equal(t, []byte{rgba.B, rgba.G, rgba.R, rgba.A}, e, "frame %d palette entry %d", i, j)
				}
			}
		})
	}
}

func TestDecoder_ReadLimits(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	want := decodeAll(t, fullFeeder(t, data))

	for limit := 1; limit <= len(data); limit++ {
		f := fullFeeder(t, data)
		f.readLimit = limit

		got := decodeAll(t, f)
		require.Equal(t, want, got, "read limit %d", limit)
	}
}

func TestDecoder_SplitPoints(t *testing.T) {
	t.Parallel()

	data := animationGIF(t)
	want := decodeAll(t, fullFeeder(t, data))

	for split := 0; split <= len(data); split++ {
		got := decodeAll(t, newFeeder(t, data, len(data), split))
		require.Equal(t, want, got, "split at %d", split)
	}
}

func TestDecoder_Compaction(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Still", "Animation"} {
		data := stillGIF(t)
		if name == "Animation" {
			data = animationGIF(t)
		}

		want := decodeAll(t, fullFeeder(t, data))

		for _, capacity := range []int{1, 7, 64, 1000} {
			f := newFeeder(t, data, capacity, capacity)
			f.chunk = capacity
			f.compact = true

			got := decodeAll(t, f)
			require.Equal(t, want, got, "%s with a %d byte buffer", name, capacity)
		}
	}
}

func TestDecoder_Extensions(t *testing.T) {
	t.Parallel()

	data := rawGIF{
		width:    4,
		height:   4,
		gct:      rgbPalette(2),
		extras:   true,
		netscape: true,
		loops:    0,
		frames:   []rawFrame{{rect: image.Rect(0, 0, 4, 4), litWidth: 2, pixels: sequence(16, 2)}},
	}.bytes(t)

	tr := decodeAll(t, fullFeeder(t, data))
	assert.Equal(t, uint32(0), tr.ic.NumLoops)
	assert.True(t, tr.ic.FirstFrameIsOpaque)
	assert.Len(t, tr.frames, 1)

	f := fullFeeder(t, data)
	f.readLimit = 1
	assert.Equal(t, tr, decodeAll(t, f))
}

func TestDecoder_FrameOutOfBounds(t *testing.T) {
	t.Parallel()

	data := rawGIF{
		width:  4,
		height: 4,
		gct:    rgbPalette(16),
		frames: []rawFrame{
			{rect: image.Rect(2, 2, 6, 7), litWidth: 4, pixels: sequence(20, 16)},
			{rect: image.Rect(4, 4, 10, 10), litWidth: 4, pixels: sequence(36, 16)},
		},
	}.bytes(t)

	tr := decodeAll(t, fullFeeder(t, data))

	// The image grows to hold the first frame; later frames are clipped.
	assert.Equal(t, uint32(6), tr.ic.Pixel.Width)
	assert.Equal(t, uint32(7), tr.ic.Pixel.Height)
	assert.False(t, tr.ic.FirstFrameIsOpaque)
	require.Len(t, tr.frames, 2)

	assert.Equal(t, base.MakeRect(2, 2, 6, 7), tr.frames[0].cfg.Bounds)
	assert.Equal(t, sequence(20, 16), tr.frames[0].pix)

	assert.Equal(t, base.MakeRect(4, 4, 6, 7), tr.frames[1].cfg.Bounds)
	assert.Equal(t, []byte{0, 1, 6, 7, 12, 13}, tr.frames[1].pix)
}

func TestDecoder_NoFrames(t *testing.T) {
	t.Parallel()

	data := rawGIF{width: 3, height: 2}.bytes(t)
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(t)

	var ic base.ImageConfig
	require.Equal(t, base.OK, d.DecodeImageConfig(&ic, src.Reader()))
	assert.Equal(t, uint32(3), ic.Pixel.Width)
	assert.False(t, ic.FirstFrameIsOpaque)
	assert.Equal(t, base.EndOfData, d.DecodeFrameConfig(nil, src.Reader()))
}

func TestDecoder_CorruptPayloads(t *testing.T) {
	t.Parallel()

	frame := rawFrame{rect: image.Rect(0, 0, 4, 4), litWidth: 2, pixels: sequence(16, 4)}

	tests := []struct {
		name string
		gif  func() rawGIF
		want base.Status
	}{
		{"NotEnoughPixelData", func() rawGIF {
			f := frame
			f.pixels = sequence(15, 4)

			return rawGIF{width: 4, height: 4, gct: rgbPalette(4), frames: []rawFrame{f}}
		}, ErrNotEnoughPixelData},
		{"BadLiteralWidth", func() rawGIF {
			f := frame
			f.widthByte = 9

			return rawGIF{width: 4, height: 4, gct: rgbPalette(4), frames: []rawFrame{f}}
		}, lzw.ErrBadLiteralWidth},
		{"MissingPalette", func() rawGIF {
			return rawGIF{width: 4, height: 4, frames: []rawFrame{frame}}
		}, ErrMissingPalette},
		{"Truncated", func() rawGIF {
			return rawGIF{width: 4, height: 4, gct: rgbPalette(4), frames: []rawFrame{frame}, noTrailer: true}
		}, base.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := tt.gif().bytes(t)
			src := base.NewIOBufferFrom(data, true)
			d := newChecked(t)

			var ic base.ImageConfig
			require.Equal(t, base.OK, d.DecodeImageConfig(&ic, src.Reader()))

			var pb base.PixelBuffer
			require.True(t, pb.SetFromSlice(ic.Pixel, make([]byte, ic.PixbufLen())).IsOK())

			before := append([]byte(nil), pb.Pixels()...)
			workbuf := make([]byte, ic.WorkbufLen.Max)

			st := d.DecodeFrame(&pb, src.Reader(), workbuf)
			if tt.name == "Truncated" {
				// The frame itself is complete, the container is not.
				require.Equal(t, base.OK, st)
				st = d.DecodeFrameConfig(nil, src.Reader())
			} else {
				assert.Equal(t, before, pb.Pixels(), "pixels written by a failed frame")
			}

			assert.True(t, st.Is(tt.want), st.String())
			assert.True(t, st.IsError())
			assert.Equal(t, base.ErrDisabledByPreviousError, d.DecodeFrame(&pb, src.Reader(), workbuf))
		})
	}
}

func TestDecoder_BadBlock(t *testing.T) {
	t.Parallel()

	data := rawGIF{width: 1, height: 1, noTrailer: true}.bytes(t)
	data = append(data, 0x99)

	d := newChecked(t)
	st := d.DecodeImageConfig(nil, base.NewIOBufferFrom(data, true).Reader())
	assert.True(t, st.Is(ErrBadBlock), st.String())
}

func BenchmarkDecoder(b *testing.B) {
	b.Run("Still", func(b *testing.B) {
		benchmarkDecoder(b, stillGIF(b))
	})

	b.Run("Animation", func(b *testing.B) {
		benchmarkDecoder(b, animationGIF(b))
	})
}

func benchmarkDecoder(b *testing.B, data []byte) {
	src := base.NewIOBufferFrom(data, true)
	d := newChecked(b)

	var ic base.ImageConfig
	require.Equal(b, base.OK, d.DecodeImageConfig(&ic, src.Reader()))

	var pb base.PixelBuffer
	require.True(b, pb.SetFromSlice(ic.Pixel, make([]byte, ic.PixbufLen())).IsOK())

	workbuf := make([]byte, ic.WorkbufLen.Max)

	b.SetBytes(int64(ic.PixbufLen()))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		src.Rewind()

		if st := d.CheckVersion(DecoderSize, base.Version); !st.IsOK() {
			b.Fatal(st)
		}

		for {
			st := d.DecodeFrame(&pb, src.Reader(), workbuf)
			if st.Is(base.EndOfData) {
				break
			}

			if !st.IsOK() {
				b.Fatal(st)
			}
		}
	}
}
