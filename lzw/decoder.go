// Package lzw implements a resumable decoder for the variable width LZW
// code stream used by GIF image data (least significant bit first, with a
// clear code and an end code).
package lzw

import (
	"unsafe"

	"github.com/hexbee-net/streamdec/base"
)

const (
	maxWidth    = 12
	tableSize   = 1 << maxWidth
	invalidCode = 0xffff

	defaultLiteralWidth = 8
)

var (
	ErrBadCode         = base.RegisterCode(base.MakeCode(base.PackageLZW, base.ClassError, 1), "lzw", "bad code")
	ErrBadLiteralWidth = base.RegisterCode(base.MakeCode(base.PackageLZW, base.ClassError, 2), "lzw", "bad literal width")
)

// DecoderSize is the value to pass as CheckVersion's sizeofReceiver.
const DecoderSize = unsafe.Sizeof(Decoder{})

// Decoder holds the state of one LZW code stream. A Decoder must be armed by
// CheckVersion before use. Its working memory is fixed: the code table plus
// one staging area for the expansion of a code.
type Decoder struct {
	magic uint32

	litWidth uint32
	primed   bool
	done     bool

	bits  uint32
	nBits uint32
	width uint32

	clear    uint16
	eof      uint16
	hi       uint16
	overflow uint16
	last     uint16

	prefix [tableSize]uint16
	suffix [tableSize]uint8

	// output[outRi:outWi] holds expanded bytes not yet written to dst. The
	// upper half doubles as scratch for reversing a code's expansion.
	output [2 * tableSize]byte
	outRi  int
	outWi  int
}

// CheckVersion arms the decoder. It must be the first call.
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
	d.magic = base.MagicInitialized
	d.litWidth = defaultLiteralWidth

	return base.OK
}

// Magic returns the decoder's private tag.
func (d *Decoder) Magic() uint32 {
	if d == nil {
		return 0
	}

	return d.magic
}

func (d *Decoder) check() base.Status {
	switch {
	case d == nil:
		return base.ErrBadReceiver
	case d.magic == base.MagicDisabled:
		return base.ErrDisabledByPreviousError
	case d.magic != base.MagicInitialized:
		return base.ErrCheckVersionMissing
	}

	return base.OK
}

// SetLiteralWidth sets the number of bits of a literal code, between 2 and 8,
// and restarts the code stream.
func (d *Decoder) SetLiteralWidth(w uint32) base.Status {
	if st := d.check(); !st.IsOK() {
		return st
	}

	if w < 2 || w > 8 {
		return ErrBadLiteralWidth.WithMessage("literal width %d", w)
	}

	d.litWidth = w
	d.reset()

	return base.OK
}

// Reset restarts the code stream with the current literal width.
func (d *Decoder) Reset() base.Status {
	if st := d.check(); !st.IsOK() {
		return st
	}

	d.reset()

	return base.OK
}

// Done reports whether the end code has been decoded and every expanded byte
// has been written out.
func (d *Decoder) Done() bool {
	return d != nil && d.done && d.outRi == d.outWi
}

func (d *Decoder) reset() {
	d.primed = true
	d.done = false
	d.bits = 0
	d.nBits = 0
	d.width = d.litWidth + 1
	d.clear = 1 << d.litWidth
	d.eof = d.clear + 1
	d.hi = d.eof
	d.overflow = 1 << d.width
	d.last = invalidCode
	d.outRi = 0
	d.outWi = 0
}

// Decode expands codes from src into dst. It returns OK once the end code
// has been decoded and flushed, ShortWrite when dst is full and ShortRead
// when src holds no more bytes. Every byte src makes available is consumed
// before ShortRead is returned.
func (d *Decoder) Decode(dst base.Writer, src base.Reader) base.Status {
	if st := d.check(); !st.IsOK() {
		return st
	}

	if !dst.Valid() || !src.Valid() {
		return base.ErrBadArgument
	}

	if !d.primed {
		d.reset()
	}

	for {
		if d.outRi < d.outWi {
			d.outRi += dst.Put(d.output[d.outRi:d.outWi])
			if d.outRi < d.outWi {
				return base.ShortWrite
			}
		}

		d.outRi, d.outWi = 0, 0

		if d.done {
			return base.OK
		}

		st, full := d.decodeCodes(src)

		switch {
		case st.IsError():
			d.magic = base.MagicDisabled
			return st
		case full || d.done:
			continue
		}

		// Flush what the last codes produced before suspending.
		d.outRi += dst.Put(d.output[d.outRi:d.outWi])
		if d.outRi < d.outWi {
			return base.ShortWrite
		}

		d.outRi, d.outWi = 0, 0

		if src.Closed() {
			d.magic = base.MagicDisabled
			return base.ErrUnexpectedEOF
		}

		return base.ShortRead
	}
}

// decodeCodes decodes codes into the staging area until it is at least half
// full (full is true), the end code is seen, src runs dry (ShortRead) or a
// code is invalid.
func (d *Decoder) decodeCodes(src base.Reader) (st base.Status, full bool) {
	for d.outWi < tableSize {
		for d.nBits < d.width {
			c, ok := src.TakeByte()
			if !ok {
				return base.ShortRead, false
			}

			d.bits |= uint32(c) << d.nBits
			d.nBits += 8
		}

		code := uint16(d.bits & (1<<d.width - 1))
		d.bits >>= d.width
		d.nBits -= d.width

		switch {
		case code < d.clear:
			d.output[d.outWi] = uint8(code)
			d.outWi++

			if d.last != invalidCode {
				d.suffix[d.hi] = uint8(code)
				d.prefix[d.hi] = d.last
			}

		case code == d.clear:
			d.width = d.litWidth + 1
			d.hi = d.eof
			d.overflow = 1 << d.width
			d.last = invalidCode

			continue

		case code == d.eof:
			d.done = true
			return base.OK, false

		case code <= d.hi:
			c, i := code, len(d.output)-1

			if code == d.hi && d.last != invalidCode {
				// The code is being defined by this very use: its expansion
				// is the previous one plus its own first byte.
				c = d.last
				for c >= d.clear {
					c = d.prefix[c]
				}

				d.output[i] = uint8(c)
				i--
				c = d.last
			}

			for c >= d.clear {
				d.output[i] = d.suffix[c]
				i--
				c = d.prefix[c]
			}

			d.output[i] = uint8(c)
			d.outWi += copy(d.output[d.outWi:], d.output[i:])

			if d.last != invalidCode {
				d.suffix[d.hi] = uint8(c)
				d.prefix[d.hi] = d.last
			}

		default:
			return ErrBadCode.WithMessage("code %d above table limit %d", code, d.hi), false
		}

		d.last, d.hi = code, d.hi+1

		if d.hi >= d.overflow {
			if d.width == maxWidth {
				d.last = invalidCode
				d.hi--
			} else {
				d.width++
				d.overflow = 1 << d.width
			}
		}
	}

	return base.OK, true
}
