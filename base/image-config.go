package base

import (
	"fmt"
	"time"
)

// PixelFormat describes the memory layout of a pixel buffer.
type PixelFormat uint32

const (
	PixelFormatInvalid PixelFormat = iota
	// PixelFormatIndexedBGRANonPremul is one byte per pixel indexing a 256
	// entry palette of 4-byte B, G, R, A non premultiplied colors.
	PixelFormatIndexedBGRANonPremul
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatInvalid:
		return "invalid"
	case PixelFormatIndexedBGRANonPremul:
		return "indexed-bgra-nonpremul"
	default:
		return fmt.Sprintf("pixel-format(%d)", uint32(f))
	}
}

// BytesPerPixel returns zero for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelFormatIndexedBGRANonPremul {
		return 1
	}

	return 0
}

// PixelConfig is the pixel format plus the dimensions of an image.
type PixelConfig struct {
	Format PixelFormat
	Width  uint32
	Height uint32
}

func (c PixelConfig) IsValid() bool {
	return c.Format.BytesPerPixel() > 0
}

func (c PixelConfig) Bounds() Rect {
	return Rect{MaxX: c.Width, MaxY: c.Height}
}

// PixbufLen returns the number of bytes a pixel buffer for c needs.
func (c PixelConfig) PixbufLen() uint64 {
	return uint64(c.Width) * uint64(c.Height) * uint64(c.Format.BytesPerPixel())
}

// RangeU64 is a closed interval [Min, Max].
type RangeU64 struct {
	Min uint64
	Max uint64
}

func (r RangeU64) Contains(x uint64) bool {
	return r.Min <= x && x <= r.Max
}

// ImageConfig is the container level metadata.
type ImageConfig struct {
	Pixel PixelConfig

	// FirstFrameIOPosition is the stream position where the first frame's
	// payload begins.
	FirstFrameIOPosition uint64
	// NumLoops is the number of times the animation plays; zero means forever.
	NumLoops uint32
	// FirstFrameIsOpaque is true when the first frame covers the whole image
	// and has no transparent pixel.
	FirstFrameIsOpaque bool
	// WorkbufLen bounds the scratch memory DecodeFrame needs.
	WorkbufLen RangeU64
}

func (c *ImageConfig) IsValid() bool {
	return c != nil && c.Pixel.IsValid()
}

func (c *ImageConfig) PixbufLen() uint64 {
	if c == nil {
		return 0
	}

	return c.Pixel.PixbufLen()
}

// Disposal is what a frame asks to happen to its area once displayed.
type Disposal uint8

const (
	DisposalNone Disposal = iota
	DisposalRestoreBackground
	DisposalRestorePrevious
)

// FrameConfig is the per frame metadata.
type FrameConfig struct {
	// Bounds is the frame's rectangle, clipped to the image.
	Bounds Rect
	// IOPosition is the stream position of the image descriptor's packed
	// fields byte, where the frame's payload begins.
	IOPosition uint64
	// Index is the zero based frame number.
	Index    uint64
	Duration time.Duration
	Disposal Disposal
	// TransparentIndex is the palette index to treat as transparent, or -1.
	TransparentIndex int
	Interlaced       bool
}
