package stream

import (
	"bytes"
	"image"
	"image/color"
	stdgif "image/gif"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexbee-net/streamdec/compression"
)

func testPalette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		p[i] = color.RGBA{R: uint8(i * 30), G: uint8(200 - i*20), B: uint8(i * 11), A: 0xff}
	}

	p[0] = color.RGBA{}

	return p
}

var testBounds = []image.Rectangle{
	image.Rect(0, 0, 40, 30),
	image.Rect(5, 5, 25, 20),
	image.Rect(10, 0, 40, 12),
}

// testGIF is a 40x30 three frame animation with a transparent index 0.
func testGIF(t testing.TB) []byte {
	pal := testPalette(8)

	g := &stdgif.GIF{
		Config: image.Config{ColorModel: pal, Width: 40, Height: 30},
	}

	for i, r := range testBounds {
		m := image.NewPaletted(r, pal)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.SetColorIndex(x, y, uint8((x+2*y+i)%len(pal)))
			}
		}

		g.Image = append(g.Image, m)
		g.Delay = append(g.Delay, 5)
	}

	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, g))

	return buf.Bytes()
}

func compressed(t testing.TB, c compression.Codec, data []byte) []byte {
	var buf bytes.Buffer

	w, err := c.NewWriter(&buf)
	require.NoError(t, err)

	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// frameIndexes returns, per frame, the palette indexes inside the frame
// bounds as decoded by image/gif.
func frameIndexes(t testing.TB, data []byte) [][]byte {
	g, err := stdgif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)

	out := make([][]byte, 0, len(g.Image))

	for _, m := range g.Image {
		b := m.Bounds()

		var pix []byte
		for y := b.Min.Y; y < b.Max.Y; y++ {
			pix = append(pix, m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]...)
		}

		out = append(out, pix)
	}

	return out
}
