package gif

import (
	"encoding/binary"
	"time"

	"github.com/hexbee-net/streamdec/base"
)

const (
	introducerExtension = 0x21
	introducerImage     = 0x2c
	introducerTrailer   = 0x3b

	labelGraphicControl = 0xf9
	labelApplication    = 0xff

	headerLen           = 6
	screenDescriptorLen = 7
	graphicControlLen   = 6
	applicationIDLen    = 11
	loopCountLen        = 3
	imageDescriptorLen  = 9

	flagColorTable  = 0x80
	flagInterlaced  = 0x40
	flagTransparent = 0x01
)

// state is a position in the container grammar. Every state consumes input
// as far as the bytes at hand allow, so that a call can stop between any
// two bytes and resume later.
type state uint8

const (
	stHeader state = iota
	stScreenDescriptor
	stGlobalPalette
	stBlock
	stExtensionLabel
	stGraphicControl
	stApplicationLen
	stApplicationID
	stSubBlockLen
	stSubBlockData
	stLoopCount
	stImageDescriptor
	stFrameReady
	stLocalPalette
	stLiteralWidth
	stDataLen
	stData
	stTrailer
)

func (s state) inPayload() bool {
	return s >= stLocalPalette && s <= stData
}

// run steps through the grammar until done reports true. It returns
// base.ShortRead when src has been drained and base.ErrUnexpectedEOF when
// src is drained for good.
func (d *Decoder) run(src base.Reader, done func() bool) base.Status {
	for !done() {
		var st base.Status

		switch d.state {
		case stHeader:
			st = d.readHeader(src)
		case stScreenDescriptor:
			st = d.readScreenDescriptor(src)
		case stGlobalPalette:
			st = d.readGlobalPalette(src)
		case stBlock:
			st = d.readBlock(src)
		case stExtensionLabel:
			st = d.readExtensionLabel(src)
		case stGraphicControl:
			st = d.readGraphicControl(src)
		case stApplicationLen:
			st = d.readApplicationLen(src)
		case stApplicationID:
			st = d.readApplicationID(src)
		case stSubBlockLen:
			st = d.readSubBlockLen(src)
		case stSubBlockData:
			st = d.skipSubBlockData(src)
		case stLoopCount:
			st = d.readLoopCount(src)
		case stImageDescriptor:
			st = d.readImageDescriptor(src)
		case stLocalPalette:
			st = d.readLocalPalette(src)
		case stLiteralWidth:
			st = d.readLiteralWidth(src)
		case stDataLen:
			st = d.readDataLen(src)
		case stData:
			st = d.readData(src)
		default:
			return base.ErrInvalidCallSequence.WithMessage("decoder stopped at state %d", d.state)
		}

		if st.IsOK() {
			continue
		}

		if st.Is(base.ShortRead) && src.Closed() {
			return base.ErrUnexpectedEOF
		}

		return st
	}

	return base.OK
}

// gather accumulates the next n bytes of a fixed size structure into
// d.scratch[:n]. It reports false until all n bytes have been seen.
func (d *Decoder) gather(src base.Reader, n int) bool {
	d.scratchN += src.Take(d.scratch[d.scratchN:n])
	if d.scratchN < n {
		return false
	}

	d.scratchN = 0

	return true
}

func paletteLen(flags byte) int {
	if flags&flagColorTable == 0 {
		return 0
	}

	return 3 << (flags&0x07 + 1)
}

func (d *Decoder) readHeader(src base.Reader) base.Status {
	if !d.gather(src, headerLen) {
		return base.ShortRead
	}

	switch string(d.scratch[:headerLen]) {
	case "GIF87a", "GIF89a":
	default:
		return ErrBadHeader.WithMessage("signature %q", d.scratch[:headerLen])
	}

	d.state = stScreenDescriptor

	return base.OK
}

func (d *Decoder) readScreenDescriptor(src base.Reader) base.Status {
	if !d.gather(src, screenDescriptorLen) {
		return base.ShortRead
	}

	s := d.scratch[:screenDescriptorLen]
	d.width = uint32(binary.LittleEndian.Uint16(s[0:2]))
	d.height = uint32(binary.LittleEndian.Uint16(s[2:4]))
	d.gctLen = paletteLen(s[4])
	d.gctN = 0

	if d.gctLen > 0 {
		d.state = stGlobalPalette
	} else {
		d.state = stBlock
	}

	return base.OK
}

func (d *Decoder) readGlobalPalette(src base.Reader) base.Status {
	d.gctN += src.Take(d.gct[d.gctN:d.gctLen])
	if d.gctN < d.gctLen {
		return base.ShortRead
	}

	d.state = stBlock

	return base.OK
}

func (d *Decoder) readBlock(src base.Reader) base.Status {
	pos := src.Position()

	c, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	switch c {
	case introducerExtension:
		d.state = stExtensionLabel
	case introducerImage:
		d.state = stImageDescriptor
	case introducerTrailer:
		d.state = stTrailer
	default:
		return ErrBadBlock.WithMessage("introducer %#02x at %d", c, pos)
	}

	return base.OK
}

func (d *Decoder) readExtensionLabel(src base.Reader) base.Status {
	c, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	switch c {
	case labelGraphicControl:
		d.state = stGraphicControl
	case labelApplication:
		d.state = stApplicationLen
	default:
		d.state = stSubBlockLen
	}

	return base.OK
}

func (d *Decoder) readGraphicControl(src base.Reader) base.Status {
	if !d.gather(src, graphicControlLen) {
		return base.ShortRead
	}

	s := d.scratch[:graphicControlLen]
	if s[0] != 4 || s[5] != 0 {
		return ErrBadGraphicControl.WithMessage("block size %d, terminator %d", s[0], s[5])
	}

	switch (s[1] >> 2) & 0x07 {
	case 2:
		d.gcDisposal = base.DisposalRestoreBackground
	case 3:
		d.gcDisposal = base.DisposalRestorePrevious
	default:
		d.gcDisposal = base.DisposalNone
	}

	d.gcDelay = binary.LittleEndian.Uint16(s[2:4])
	d.gcTransparent = -1

	if s[1]&flagTransparent != 0 {
		d.gcTransparent = int(s[4])
	}

	d.state = stBlock

	return base.OK
}

func (d *Decoder) readApplicationLen(src base.Reader) base.Status {
	n, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	switch n {
	case applicationIDLen:
		d.state = stApplicationID
	case 0:
		d.state = stBlock
	default:
		d.blockRemaining = int(n)
		d.state = stSubBlockData
	}

	return base.OK
}

func (d *Decoder) readApplicationID(src base.Reader) base.Status {
	if !d.gather(src, applicationIDLen) {
		return base.ShortRead
	}

	switch string(d.scratch[:applicationIDLen]) {
	case "NETSCAPE2.0", "ANIMEXTS1.0":
		d.loopExtension = true
	}

	d.state = stSubBlockLen

	return base.OK
}

func (d *Decoder) readSubBlockLen(src base.Reader) base.Status {
	n, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	switch {
	case n == 0:
		d.loopExtension = false
		d.state = stBlock
	case d.loopExtension && n == loopCountLen:
		d.state = stLoopCount
	default:
		d.blockRemaining = int(n)
		d.state = stSubBlockData
	}

	return base.OK
}

func (d *Decoder) skipSubBlockData(src base.Reader) base.Status {
	d.blockRemaining -= src.Skip(d.blockRemaining)
	if d.blockRemaining > 0 {
		return base.ShortRead
	}

	d.state = stSubBlockLen

	return base.OK
}

// readLoopCount reads the NETSCAPE2.0 sub-block. The stored count is the
// number of repetitions after the first play, with zero meaning forever.
func (d *Decoder) readLoopCount(src base.Reader) base.Status {
	if !d.gather(src, loopCountLen) {
		return base.ShortRead
	}

	s := d.scratch[:loopCountLen]
	if s[0] == 1 {
		n := uint32(binary.LittleEndian.Uint16(s[1:3]))
		if n != 0 {
			n++
		}

		d.numLoops = n
	}

	d.loopExtension = false
	d.state = stSubBlockLen

	return base.OK
}

func (d *Decoder) readImageDescriptor(src base.Reader) base.Status {
	if !d.gather(src, imageDescriptorLen) {
		return base.ShortRead
	}

	s := d.scratch[:imageDescriptorLen]
	left := uint32(binary.LittleEndian.Uint16(s[0:2]))
	top := uint32(binary.LittleEndian.Uint16(s[2:4]))
	w := uint32(binary.LittleEndian.Uint16(s[4:6]))
	h := uint32(binary.LittleEndian.Uint16(s[6:8]))

	d.frameRect = base.MakeRect(left, top, left+w, top+h)
	d.frameLCTLen = paletteLen(s[8])

	// Before the image config is out, the image grows to hold the first
	// frame. Later frames are clipped.
	if !d.imageConfigEnded {
		if d.frameRect.MaxX > d.width {
			d.width = d.frameRect.MaxX
		}

		if d.frameRect.MaxY > d.height {
			d.height = d.frameRect.MaxY
		}
	}

	// Frame decoding restarts at the packed fields byte, the last one taken.
	d.pending = base.FrameConfig{
		Bounds:           d.frameRect.Intersect(base.MakeRect(0, 0, d.width, d.height)),
		IOPosition:       src.Position() - 1,
		Duration:         time.Duration(d.gcDelay) * 10 * time.Millisecond,
		Disposal:         d.gcDisposal,
		TransparentIndex: d.gcTransparent,
		Interlaced:       s[8]&flagInterlaced != 0,
	}

	d.gcDelay = 0
	d.gcDisposal = base.DisposalNone
	d.gcTransparent = -1

	d.state = stFrameReady

	return base.OK
}
