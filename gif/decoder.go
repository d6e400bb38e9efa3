// Package gif implements a resumable GIF decoder.
//
// The decoder never blocks and never asks for more input than a caller has:
// each call consumes what it can from a base.Reader and returns a
// base.Status. On base.ShortRead the caller appends input to the underlying
// buffer (or closes it) and repeats the same call.
//
//	var d gif.Decoder
//	if st := d.CheckVersion(gif.DecoderSize, base.Version); !st.IsOK() {
//		return st
//	}
//	var ic base.ImageConfig
//	for st := d.DecodeImageConfig(&ic, src); !st.IsOK(); st = d.DecodeImageConfig(&ic, src) {
//		// refill src's buffer on base.ShortRead, give up otherwise
//	}
//
// Frames are then decoded with DecodeFrameConfig and DecodeFrame until they
// return base.EndOfData.
package gif

import (
	"unsafe"

	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/lzw"
)

var (
	ErrBadHeader          = base.RegisterCode(base.MakeCode(base.PackageGIF, base.ClassError, 1), "gif", "bad header")
	ErrBadBlock           = base.RegisterCode(base.MakeCode(base.PackageGIF, base.ClassError, 2), "gif", "bad block")
	ErrBadGraphicControl  = base.RegisterCode(base.MakeCode(base.PackageGIF, base.ClassError, 3), "gif", "bad graphic control")
	ErrMissingPalette     = base.RegisterCode(base.MakeCode(base.PackageGIF, base.ClassError, 4), "gif", "missing palette")
	ErrNotEnoughPixelData = base.RegisterCode(base.MakeCode(base.PackageGIF, base.ClassError, 5), "gif", "not enough pixel data")
)

// DecoderSize is the value to pass as CheckVersion's sizeofReceiver.
const DecoderSize = unsafe.Sizeof(Decoder{})

const stagingLen = 4096

type stage uint8

const (
	stageNone stage = iota
	stageImageConfig
	stageFrameConfig
	stageFrame
)

// Decoder is a GIF decoding session. The zero value must be armed with
// CheckVersion. A Decoder is not safe for concurrent use and must not be
// copied once armed.
type Decoder struct {
	magic uint32

	suspended        stage
	imageConfigEnded bool

	state    state
	skipping bool

	scratch  [16]byte
	scratchN int

	blockRemaining int
	loopExtension  bool

	width    uint32
	height   uint32
	numLoops uint32

	imageConfig base.ImageConfig

	gct    [3 * 256]byte
	gctLen int
	gctN   int

	gcDelay       uint16
	gcDisposal    base.Disposal
	gcTransparent int

	frameRect   base.Rect
	frameLCTLen int
	pending     base.FrameConfig
	current     base.FrameConfig

	lct  [3 * 256]byte
	lctN int

	numFrameConfigs uint64
	numFrames       uint64

	lzw     lzw.Decoder
	staging *base.IOBuffer
	workbuf []byte

	lzwDone    bool
	frameDone  bool
	frameEnded bool
	dstX       uint32
	dstY       uint32
	pass       uint8
}

// NewDecoder returns an armed decoder.
func NewDecoder() (*Decoder, error) {
	d := &Decoder{}

	if st := d.CheckVersion(DecoderSize, base.Version); !st.IsOK() {
		return nil, st
	}

	return d, nil
}

// CheckVersion arms the decoder and its embedded LZW decoder. It must be the
// first call on a Decoder. sizeofReceiver must be DecoderSize and version
// must be base.Version.
func (d *Decoder) CheckVersion(sizeofReceiver uintptr, version uint64) base.Status {
	if d == nil {
		return base.ErrBadReceiver
	}

	if sizeofReceiver != DecoderSize {
		return base.ErrBadSizeofReceiver
	}

	if version != base.Version {
		return base.ErrBadVersion
	}

	*d = Decoder{}

	if st := d.lzw.CheckVersion(lzw.DecoderSize, version); !st.IsOK() {
		return st
	}

	stg, err := base.NewIOBuffer(stagingLen)
	if err != nil {
		return base.ErrBadArgument.WithMessage("%v", err)
	}

	d.staging = stg
	d.numLoops = 1
	d.gcTransparent = -1
	d.magic = base.MagicInitialized

	return base.OK
}

// Magic returns the decoder's private tag and the one of its LZW decoder.
func (d *Decoder) Magic() (outer, inner uint32) {
	if d == nil {
		return 0, 0
	}

	return d.magic, d.lzw.Magic()
}

func (d *Decoder) NumDecodedFrameConfigs() uint64 {
	if d == nil {
		return 0
	}

	return d.numFrameConfigs
}

func (d *Decoder) NumDecodedFrames() uint64 {
	if d == nil {
		return 0
	}

	return d.numFrames
}

func (d *Decoder) enter(s stage) base.Status {
	switch {
	case d == nil:
		return base.ErrBadReceiver
	case d.magic == base.MagicDisabled:
		if s == stageImageConfig && d.imageConfigEnded {
			return base.ErrInvalidCallSequence
		}

		return base.ErrDisabledByPreviousError
	case d.magic != base.MagicInitialized:
		return base.ErrCheckVersionMissing
	case s == stageImageConfig && d.imageConfigEnded:
		return d.leave(s, base.ErrInvalidCallSequence)
	case d.suspended != stageNone && d.suspended != s:
		if s == stageImageConfig {
			d.imageConfigEnded = true
		}

		return d.leave(s, base.ErrInvalidCallSequence.WithMessage("call while a different call is suspended"))
	}

	return base.OK
}

func (d *Decoder) leave(s stage, st base.Status) base.Status {
	d.workbuf = nil

	switch {
	case st.IsError():
		d.suspended = stageNone
		d.magic = base.MagicDisabled
	case st.IsSuspension() && !st.Is(base.EndOfData):
		d.suspended = s
	default:
		d.suspended = stageNone
	}

	return st
}
