package gif

import (
	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/lzw"
)

// DecodeFrame decodes the payload of the current frame, decoding the next
// frame config first if none is pending. The frame's pixels and palette are
// written to dst only once the whole frame has been decoded; until then
// they are staged in workbuf, which must hold at least the image config's
// WorkbufLen.Min bytes. It returns base.EndOfData once no frame remains.
func (d *Decoder) DecodeFrame(dst *base.PixelBuffer, src base.Reader, workbuf []byte) base.Status {
	if st := d.enter(stageFrame); !st.IsOK() {
		return st
	}

	if !src.Valid() {
		return d.leave(stageFrame, base.ErrBadArgument.WithMessage("nil reader"))
	}

	return d.leave(stageFrame, d.decodeFrame(dst, src, workbuf))
}

func (d *Decoder) decodeFrame(dst *base.PixelBuffer, src base.Reader, workbuf []byte) base.Status {
	if !d.imageConfigEnded {
		if st := d.decodeImageConfig(src); !st.IsOK() {
			return st
		}
	}

	if d.state == stTrailer {
		return base.EndOfData
	}

	if st := d.checkFrameArgs(dst, workbuf); !st.IsOK() {
		return st
	}

	if !d.state.inPayload() {
		if st := d.decodeFrameConfig(nil, src); !st.IsOK() {
			return st
		}
	}

	d.workbuf = workbuf

	st := d.run(src, func() bool {
		return d.frameEnded
	})
	if !st.IsOK() {
		return st
	}

	if st := d.commitFrame(dst); !st.IsOK() {
		return st
	}

	d.frameEnded = false
	d.numFrames++

	return base.OK
}

func (d *Decoder) checkFrameArgs(dst *base.PixelBuffer, workbuf []byte) base.Status {
	if dst == nil {
		return base.ErrBadArgument.WithMessage("nil pixel buffer")
	}

	if dst.Config() != d.imageConfig.Pixel {
		return base.ErrBadArgument.WithMessage("pixel buffer is %dx%d %s, image is %dx%d %s",
			dst.Config().Width, dst.Config().Height, dst.Config().Format,
			d.imageConfig.Pixel.Width, d.imageConfig.Pixel.Height, d.imageConfig.Pixel.Format)
	}

	if uint64(len(workbuf)) < d.imageConfig.WorkbufLen.Min {
		return base.ErrBadWorkbufLength.WithMessage("workbuf holds %d bytes, want %d", len(workbuf), d.imageConfig.WorkbufLen.Min)
	}

	return base.OK
}

var (
	interlaceStart = [4]uint32{0, 4, 2, 1}
	interlaceStep  = [4]uint32{8, 8, 4, 2}
)

func (d *Decoder) readLocalPalette(src base.Reader) base.Status {
	if d.skipping {
		d.lctN += src.Skip(d.frameLCTLen - d.lctN)
	} else {
		d.lctN += src.Take(d.lct[d.lctN:d.frameLCTLen])
	}

	if d.lctN < d.frameLCTLen {
		return base.ShortRead
	}

	d.state = stLiteralWidth

	return base.OK
}

func (d *Decoder) readLiteralWidth(src base.Reader) base.Status {
	w, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	if w < 2 || w > 8 {
		return lzw.ErrBadLiteralWidth.WithMessage("literal width %d in frame %d", w, d.current.Index)
	}

	d.state = stDataLen

	if d.skipping {
		return base.OK
	}

	if d.frameLCTLen == 0 && d.gctLen == 0 {
		return ErrMissingPalette.WithMessage("frame %d", d.current.Index)
	}

	if st := d.lzw.SetLiteralWidth(uint32(w)); !st.IsOK() {
		return st
	}

	d.staging.Reset()
	d.lzwDone = false
	d.frameEnded = false
	d.frameDone = d.frameRect.Empty()
	d.dstX, d.dstY, d.pass = 0, 0, 0

	return base.OK
}

func (d *Decoder) readDataLen(src base.Reader) base.Status {
	n, ok := src.TakeByte()
	if !ok {
		return base.ShortRead
	}

	if n > 0 {
		d.blockRemaining = int(n)
		d.state = stData

		return base.OK
	}

	d.state = stBlock

	if d.skipping {
		return base.OK
	}

	if !d.frameDone {
		return ErrNotEnoughPixelData.WithMessage("frame %d stopped at row %d", d.current.Index, d.dstY)
	}

	d.frameEnded = true

	return base.OK
}

func (d *Decoder) readData(src base.Reader) base.Status {
	if !d.skipping && !d.lzwDone {
		if st := d.decodeData(src); !st.IsOK() {
			return st
		}
	}

	// Whatever follows the end code is ignored.
	if d.skipping || d.lzwDone {
		d.blockRemaining -= src.Skip(d.blockRemaining)
	}

	if d.blockRemaining > 0 {
		return base.ShortRead
	}

	d.state = stDataLen

	return base.OK
}

// decodeData feeds the current sub-block to the LZW decoder, which never
// sees past the sub-block's end, and spreads its output over the frame.
func (d *Decoder) decodeData(src base.Reader) base.Status {
	for d.blockRemaining > 0 && !d.lzwDone {
		before := src.Position()
		st := d.lzw.Decode(d.staging.Writer(), src.WithLimit(d.blockRemaining))
		d.blockRemaining -= int(src.Position() - before)

		d.drain()

		switch {
		case st.IsOK():
			d.lzwDone = true
		case st.Is(base.ShortWrite):
		case st.Is(base.ShortRead):
			return base.OK
		default:
			return st
		}
	}

	return base.OK
}

// drain moves the staged LZW output into the workbuf. The workbuf holds the
// frame's clipped bounds, row after row. Pixels past the frame's last row
// are dropped.
func (d *Decoder) drain() {
	p := d.staging.Unread()
	fw := d.frameRect.Width()

	for len(p) > 0 && !d.frameDone {
		n := int(fw - d.dstX)
		if n > len(p) {
			n = len(p)
		}

		d.putRow(p[:n])
		p = p[n:]
		d.dstX += uint32(n)

		if d.dstX == fw {
			d.dstX = 0
			d.nextRow()
		}
	}

	d.staging.Reset()
}

func (d *Decoder) putRow(p []byte) {
	b := d.current.Bounds

	y := d.frameRect.MinY + d.dstY
	if y < b.MinY || y >= b.MaxY {
		return
	}

	x0 := d.frameRect.MinX + d.dstX
	x1 := x0 + uint32(len(p))
	cx0, cx1 := x0, x1

	if cx0 < b.MinX {
		cx0 = b.MinX
	}

	if cx1 > b.MaxX {
		cx1 = b.MaxX
	}

	if cx0 >= cx1 {
		return
	}

	i := int(y-b.MinY)*int(b.Width()) + int(cx0-b.MinX)
	copy(d.workbuf[i:], p[cx0-x0:cx1-x0])
}

func (d *Decoder) nextRow() {
	rows := d.frameRect.Height()

	if !d.current.Interlaced {
		d.dstY++
		d.frameDone = d.dstY >= rows

		return
	}

	d.dstY += interlaceStep[d.pass]

	for d.dstY >= rows {
		d.pass++
		if int(d.pass) >= len(interlaceStart) {
			d.frameDone = true
			return
		}

		d.dstY = interlaceStart[d.pass]
	}
}

// commitFrame publishes a completed frame: its pixels are copied from the
// workbuf into dst and its palette is installed as opaque BGRA, the
// transparent entry being all zeroes.
func (d *Decoder) commitFrame(dst *base.PixelBuffer) base.Status {
	b := d.current.Bounds
	bw := int(b.Width())

	for y := b.MinY; y < b.MaxY; y++ {
		i := int(y-b.MinY) * bw
		copy(dst.Row(y)[b.MinX:b.MaxX], d.workbuf[i:i+bw])
	}

	p := d.gct[:d.gctLen]
	if d.frameLCTLen > 0 {
		p = d.lct[:d.frameLCTLen]
	}

	pal := dst.Palette()

	for i := 0; i < 256; i++ {
		e := pal[4*i : 4*i+4]

		if 3*i+2 < len(p) {
			e[0], e[1], e[2], e[3] = p[3*i+2], p[3*i+1], p[3*i], 0xff
		} else {
			e[0], e[1], e[2], e[3] = 0, 0, 0, 0xff
		}
	}

	if t := d.current.TransparentIndex; t >= 0 && t < 256 {
		copy(pal[4*t:4*t+4], []byte{0, 0, 0, 0})
	}

	return base.OK
}
